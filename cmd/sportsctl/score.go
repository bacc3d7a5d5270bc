package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/client"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
)

// itemFlags collects repeated -item code=value flags.
type itemFlags map[string]model.Value

func (f itemFlags) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (f itemFlags) Set(s string) error {
	code, raw, ok := strings.Cut(s, "=")
	if !ok || code == "" || raw == "" {
		return fmt.Errorf("item %q: want code=value", s)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		f[code] = model.Number(n)
	} else {
		f[code] = model.Text(raw)
	}
	return nil
}

type scorer func(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error)

func runScore(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		file    = fs.String("f", "", "JSON file with one measurement or a list of them")
		remote  = fs.Bool("remote", false, "Score on the server instead of locally")
		baseURL = fs.String("url", serverURL(), "Base URL of sportsd (with -remote)")
		student = fs.String("student", "", "Student id")
		name    = fs.String("name", "", "Student name")
		grade   = fs.String("grade", "", "Grade, e.g. 初二")
		gender  = fs.String("gender", "", "Gender, 男 or 女")
		height  = fs.Float64("height", 0, "Height in cm")
		weight  = fs.Float64("weight", 0, "Weight in kg")
		noColor = fs.Bool("no-color", false, "Disable colored output")
	)
	items := itemFlags{}
	fs.Var(items, "item", "Item result as code=value, repeatable (e.g. run1000m=3'45)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}

	var measurements []model.Measurement
	if *file != "" {
		var err error
		if measurements, err = readMeasurements(*file); err != nil {
			return err
		}
	} else {
		measurements = []model.Measurement{{
			StudentID: *student,
			Name:      *name,
			Grade:     *grade,
			Gender:    *gender,
			Height:    *height,
			Weight:    *weight,
			Items:     items,
		}}
	}

	score := scorer(service.New().Score)
	if *remote {
		score = client.New(*baseURL).Calculate
	}

	for _, m := range measurements {
		res, err := score(ctx, m)
		if err != nil {
			return fmt.Errorf("score %s: %w", m.StudentID, err)
		}
		printBreakdown(out, m, res)
	}
	return nil
}

// readMeasurements accepts either a single JSON object or an array.
func readMeasurements(path string) ([]model.Measurement, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read measurements: %w", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("read measurements: empty file")
	}
	if b[0] == '[' {
		var list []model.Measurement
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
		return list, nil
	}
	var m model.Measurement
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode measurement: %w", err)
	}
	return []model.Measurement{m}, nil
}

func levelColor(level string) *color.Color {
	switch level {
	case scoring.LevelExcellent:
		return color.New(color.FgGreen, color.Bold)
	case scoring.LevelGood:
		return color.New(color.FgCyan)
	case scoring.LevelPass:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func printBreakdown(out io.Writer, m model.Measurement, res model.ScoreBreakdown) { //nolint:gocritic // hugeParam: read-only
	who := m.StudentID
	if m.Name != "" {
		who += " " + m.Name
	}
	fmt.Fprintf(out, "\n%s  %s %s\n", who, m.Grade, model.NormalizeGender(m.Gender))

	names := map[string]string{}
	for _, it := range scoring.ItemsFor(m.Grade, m.Gender) {
		names[it.Code] = it.Name
	}
	label := func(code string) string {
		if n, ok := names[code]; ok {
			return n
		}
		return code
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"项目", "成绩", "得分", "权重", "加分"})
	if res.BMI != nil {
		table.Append([]string{
			label(scoring.ItemBMI),
			fmt.Sprintf("%.1f %s", res.BMI.Value, res.BMI.Classification),
			formatScore(res.BMI.Score),
			formatScore(res.Items[scoring.ItemBMI].Weight),
			"",
		})
	}
	codes := make([]string, 0, len(res.Items))
	for code := range res.Items {
		if code != scoring.ItemBMI {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	for _, code := range codes {
		it := res.Items[code]
		score := formatScore(it.Score)
		if !it.Valid {
			score = "无效"
		}
		bonus := ""
		if b, ok := res.BonusItems[code]; ok && b.Bonus > 0 {
			bonus = "+" + strconv.Itoa(b.Bonus)
		}
		table.Append([]string{label(code), it.Value.String(), score, formatScore(it.Weight), bonus})
	}
	table.Render()

	fmt.Fprintf(out, "标准分 %d  附加分 %d  综合分 %d  等级 %s\n",
		res.StandardScore, res.BonusScore, res.CompositeScore,
		levelColor(res.GradeLevel).Sprint(res.GradeLevel))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
