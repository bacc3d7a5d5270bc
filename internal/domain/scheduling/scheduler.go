// Package scheduling places approved registrations into timed heats and
// reports referee and venue double bookings.
package scheduling

import (
	"fmt"
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// Input is everything one scheduling run needs.
type Input struct {
	SportsMeetID  string
	StartDate     string
	Events        []model.Event
	Registrations []model.Registration
	Venues        []model.Venue
	Referees      []model.Referee
}

// Result is the outcome of a scheduling run. Warning is set when no heat
// could be generated.
type Result struct {
	Heats   []model.ScheduledHeat `json:"heats"`
	Warning string                `json:"warning,omitempty"`
}

// Scheduler generates heats greedily. It keeps no state between calls.
type Scheduler struct {
	baseTime       int
	heatMinutes    int
	minRest        int
	defaultReferee string
	defaultVenue   string
	checkLimit     int
	reportLimit    int
	newID          func() string
}

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	s := defaultScheduler()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sliceKey identifies the registrations of one grade, event and gender.
type sliceKey struct {
	grade, eventID, gender string
}

// run holds the busy tables of one AutoSchedule call.
type run struct {
	*Scheduler
	in           Input
	venuesUsed   map[string]bool
	refereesUsed map[string]bool
	athleteEnd   map[string]int
}

// AutoSchedule builds heats ordered by grade, event, gender and heat index.
// In each heat every class fields at most one athlete.
func (s *Scheduler) AutoSchedule(in Input) Result {
	bySlice := make(map[sliceKey][]model.Registration)
	gradeSet := make(map[string]struct{})
	for _, r := range in.Registrations {
		if !r.Approved() || (in.SportsMeetID != "" && r.SportsMeetID != in.SportsMeetID) {
			continue
		}
		g := model.NormalizeGender(r.Gender)
		if g != model.GenderMale && g != model.GenderFemale {
			continue
		}
		k := sliceKey{grade: r.Grade, eventID: r.EventID, gender: g}
		bySlice[k] = append(bySlice[k], r)
		gradeSet[r.Grade] = struct{}{}
	}

	grades := make([]string, 0, len(gradeSet))
	for g := range gradeSet {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	r := &run{
		Scheduler:    s,
		in:           in,
		venuesUsed:   make(map[string]bool),
		refereesUsed: make(map[string]bool),
		athleteEnd:   make(map[string]int),
	}
	var heats []model.ScheduledHeat
	events := sortEvents(in.Events)
	for _, grade := range grades {
		for _, ev := range events {
			for _, gender := range []string{model.GenderMale, model.GenderFemale} {
				regs := bySlice[sliceKey{grade: grade, eventID: ev.ID, gender: gender}]
				if len(regs) == 0 {
					continue
				}
				heats = append(heats, r.scheduleSlice(ev, grade, gender, regs)...)
			}
		}
	}

	if len(heats) == 0 {
		return Result{Heats: []model.ScheduledHeat{}, Warning: WarningNoHeats}
	}
	return Result{Heats: heats}
}

// scheduleSlice emits the heats of one grade, event and gender.
func (r *run) scheduleSlice(ev model.Event, grade, gender string, regs []model.Registration) []model.ScheduledHeat {
	byClass := groupByClass(regs)
	classes := sortedKeys(byClass)
	groupCount := 0
	for _, c := range classes {
		groupCount = max(groupCount, len(byClass[c]))
	}

	heats := make([]model.ScheduledHeat, 0, groupCount)
	for k := range groupCount {
		athletes := make([]model.Registration, 0, len(classes))
		for _, c := range classes {
			if k < len(byClass[c]) {
				athletes = append(athletes, byClass[c][k])
			}
		}

		venue := r.pickVenue(ev.Type)
		referee := r.pickReferee()

		start := r.baseTime + k*r.heatMinutes
		need := 0
		for _, a := range athletes {
			last, ok := r.athleteEnd[a.AthleteKey()]
			if !ok {
				continue
			}
			if rest := start - last; rest < r.minRest {
				need = max(need, r.minRest-rest)
			}
		}
		start += need
		end := start + r.heatMinutes

		heat := model.ScheduledHeat{
			ID:           r.newID(),
			SportsMeetID: r.in.SportsMeetID,
			EventID:      ev.ID,
			EventName:    ev.Name,
			Grade:        grade,
			Gender:       gender,
			GroupName:    fmt.Sprintf("第%d组", k+1),
			GroupCount:   groupCount,
			Date:         r.in.StartDate,
			StartTime:    FormatClock(start),
			EndTime:      FormatClock(end),
			Venue:        venue,
			Referee:      referee,
			Status:       model.HeatStatusScheduled,
			GroupDetails: model.GroupDetails{
				Classes:       slices.Clone(classes),
				Athletes:      athletes,
				TotalAthletes: len(athletes),
			},
		}
		heats = append(heats, heat)

		r.venuesUsed[venue] = true
		if referee != r.defaultReferee {
			r.refereesUsed[referee] = true
		}
		for _, a := range athletes {
			r.athleteEnd[a.AthleteKey()] = end
		}
	}
	return heats
}

// pickVenue returns the first compatible venue not used yet in this run,
// then the first compatible one, then any venue, then the placeholder.
func (r *run) pickVenue(t model.EventType) string {
	var first string
	for _, v := range r.in.Venues {
		if !v.Accepts(t) {
			continue
		}
		if first == "" {
			first = v.Name
		}
		if !r.venuesUsed[v.Name] {
			return v.Name
		}
	}
	if first != "" {
		return first
	}
	if len(r.in.Venues) > 0 {
		return r.in.Venues[0].Name
	}
	return r.defaultVenue
}

// pickReferee returns the first referee not used yet in this run, then the
// first referee, then the placeholder.
func (r *run) pickReferee() string {
	for _, ref := range r.in.Referees {
		if !r.refereesUsed[ref.Name] {
			return ref.Name
		}
	}
	if len(r.in.Referees) > 0 {
		return r.in.Referees[0].Name
	}
	return r.defaultReferee
}

func eventTypeRank(t model.EventType) int {
	switch t {
	case model.EventField:
		return 0
	case model.EventTrack:
		return 1
	}
	return 2
}

// sortEvents orders field events before track events before the rest, then
// by name in Chinese collation.
func sortEvents(events []model.Event) []model.Event {
	out := slices.Clone(events)
	col := collate.New(language.Chinese)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := eventTypeRank(out[i].Type), eventTypeRank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func groupByClass(regs []model.Registration) map[string][]model.Registration {
	out := make(map[string][]model.Registration)
	for _, r := range regs {
		out[r.ClassName] = append(out[r.ClassName], r)
	}
	return out
}

func sortedKeys(m map[string][]model.Registration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Roster builds the group details of a manually placed heat from the approved
// registrations of its event and meet. Grade and gender narrow the roster
// when the heat carries them.
func Roster(heat model.ScheduledHeat, regs []model.Registration) model.GroupDetails {
	filter := model.RegistrationFilter{
		SportsMeetID: heat.SportsMeetID,
		EventID:      heat.EventID,
		Grade:        heat.Grade,
		Gender:       heat.Gender,
		Status:       model.StatusApproved,
	}
	athletes := make([]model.Registration, 0)
	for _, r := range regs {
		if filter.Match(r) {
			athletes = append(athletes, r)
		}
	}
	return model.GroupDetails{
		Classes:       sortedKeys(groupByClass(athletes)),
		Athletes:      athletes,
		TotalAthletes: len(athletes),
	}
}
