package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/jigu1688/sporttools-sub000/internal/adapters/export"
	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
)

const filePermission = 0o600

// meetPlan is the input file of the schedule command.
type meetPlan struct {
	Meet          model.SportsMeet     `json:"meet"`
	Events        []model.Event        `json:"events"`
	Venues        []model.Venue        `json:"venues"`
	Referees      []model.Referee      `json:"referees"`
	Registrations []model.Registration `json:"registrations"`
}

func runSchedule(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		file     = fs.String("f", "", "JSON file with meet, events, venues, referees and registrations")
		baseTime = fs.String("base-time", "08:00", "First heat start time (HH:MM)")
		heatMin  = fs.Int("heat-minutes", 0, "Heat length in minutes (0 keeps the default)")
		restMin  = fs.Int("min-rest", -1, "Minimum rest between an athlete's heats in minutes (negative keeps the default)")
		xlsxOut  = fs.String("xlsx", "", "Also write the schedule to this .xlsx file")
		asJSON   = fs.Bool("json", false, "Print the schedule as JSON")
		noColor  = fs.Bool("no-color", false, "Disable colored output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}
	if *file == "" {
		return fmt.Errorf("%w: schedule needs -f", errUsage)
	}

	plan, err := readPlan(*file)
	if err != nil {
		return err
	}
	base, err := scheduling.ParseClock(*baseTime)
	if err != nil {
		return fmt.Errorf("base-time: %w", err)
	}

	svc := service.New(service.WithSchedulerOptions(
		scheduling.WithBaseTime(base),
		scheduling.WithHeatMinutes(*heatMin),
		scheduling.WithMinRest(*restMin),
	))
	outcome, err := planSchedule(ctx, svc, plan)
	if err != nil {
		return err
	}

	if *xlsxOut != "" {
		b, err := export.Schedule(outcome.Heats)
		if err != nil {
			return fmt.Errorf("export schedule: %w", err)
		}
		if err := os.WriteFile(*xlsxOut, b, filePermission); err != nil {
			return fmt.Errorf("write %s: %w", *xlsxOut, err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	printSchedule(out, plan.Meet.Name, outcome)
	return nil
}

func readPlan(path string) (meetPlan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return meetPlan{}, fmt.Errorf("read plan: %w", err)
	}
	var plan meetPlan
	if err := json.Unmarshal(b, &plan); err != nil {
		return meetPlan{}, fmt.Errorf("decode plan: %w", err)
	}
	return plan, nil
}

// planSchedule loads the plan into svc and runs automatic scheduling.
// Registrations without a meet id are attached to the plan's meet.
func planSchedule(ctx context.Context, svc *service.Service, plan meetPlan) (service.ScheduleOutcome, error) { //nolint:gocritic // hugeParam: read-only
	meet, err := svc.CreateMeet(ctx, plan.Meet)
	if err != nil {
		return service.ScheduleOutcome{}, fmt.Errorf("meet: %w", err)
	}
	for _, e := range plan.Events {
		if _, err := svc.SaveEvent(ctx, e); err != nil {
			return service.ScheduleOutcome{}, fmt.Errorf("event %s: %w", e.Name, err)
		}
	}
	for _, v := range plan.Venues {
		if _, err := svc.SaveVenue(ctx, v); err != nil {
			return service.ScheduleOutcome{}, fmt.Errorf("venue %s: %w", v.Name, err)
		}
	}
	for _, r := range plan.Referees {
		if _, err := svc.SaveReferee(ctx, r); err != nil {
			return service.ScheduleOutcome{}, fmt.Errorf("referee %s: %w", r.Name, err)
		}
	}
	for _, r := range plan.Registrations {
		if r.SportsMeetID == "" {
			r.SportsMeetID = meet.ID
		}
		if _, err := svc.SaveRegistration(ctx, r); err != nil {
			return service.ScheduleOutcome{}, fmt.Errorf("registration %s: %w", r.StudentName, err)
		}
	}
	return svc.AutoSchedule(ctx, meet.ID)
}

func printSchedule(out io.Writer, meetName string, outcome service.ScheduleOutcome) { //nolint:gocritic // hugeParam: read-only
	fmt.Fprintf(out, "\n%s\n", color.New(color.FgCyan, color.Bold).Sprint(meetName))
	if outcome.Warning != "" {
		fmt.Fprintln(out, color.New(color.FgYellow).Sprint(outcome.Warning))
	}
	if len(outcome.Heats) == 0 {
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"日期", "时间", "项目", "年级", "性别", "组别", "场地", "裁判", "人数"})
	for _, h := range outcome.Heats {
		table.Append([]string{
			h.Date,
			h.StartTime + "-" + h.EndTime,
			h.EventName,
			h.Grade,
			h.Gender,
			h.GroupName,
			h.Venue,
			h.Referee,
			strconv.Itoa(h.GroupDetails.TotalAthletes),
		})
	}
	table.Render()

	report := outcome.Conflicts
	if report.Total == 0 {
		fmt.Fprintf(out, "%d heats, %s\n", len(outcome.Heats), color.New(color.FgGreen).Sprint("no conflicts"))
		return
	}
	fmt.Fprintf(out, "%d heats, %s\n", len(outcome.Heats),
		color.New(color.FgRed).Sprintf("%d conflicts", report.Total))
	for _, c := range report.Conflicts {
		fmt.Fprintf(out, "  [%s] %s\n", c.Type, c.Reason)
	}
}
