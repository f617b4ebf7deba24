// Package fixtures generates mock marketplace data for local development.
// Output is deterministic for a given seed.
package fixtures

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"artisanhub/backend/pkg/models"
)

// File names written by WriteAll.
const (
	ArtisansFile     = "artisans.json"
	ArtisanJobsFile  = "artisan-jobs.json"
	JobScenariosFile = "jobScenarios.json"
)

// Defaults used when the caller does not override them.
const (
	DefaultSeed     = 20240601
	DefaultArtisans = 40
	DefaultJobs     = 60
)

var (
	firstNames = []string{"Adaeze", "Babajide", "Chinedu", "Damilola", "Emeka", "Funke", "Ibrahim", "Kemi", "Musa", "Ngozi", "Olumide", "Temitope", "Uche", "Yusuf", "Zainab"}
	lastNames  = []string{"Adeyemi", "Bello", "Chukwu", "Eze", "Lawal", "Nwosu", "Ogunleye", "Okafor", "Olawale", "Usman"}

	trades = []struct {
		category string
		skills   []string
		jobs     []string
	}{
		{"Plumbing", []string{"Pipe repair", "Water heater", "Drain cleaning"}, []string{"Fix leaking kitchen sink", "Install water heater", "Unblock bathroom drain"}},
		{"Electrical", []string{"Wiring", "Inverter install", "Lighting"}, []string{"Rewire sitting room sockets", "Install inverter and batteries", "Replace ceiling lights"}},
		{"Carpentry", []string{"Wardrobes", "Doors", "Furniture repair"}, []string{"Build bedroom wardrobe", "Hang new front door", "Repair dining chairs"}},
		{"Painting", []string{"Interior", "Exterior", "POP finishing"}, []string{"Paint 3-bedroom flat", "Repaint fence", "POP ceiling touch-up"}},
		{"Tiling", []string{"Floor tiles", "Wall tiles", "Grouting"}, []string{"Tile kitchen floor", "Retile shower wall", "Regrout bathroom"}},
		{"AC Repair", []string{"Split units", "Gas refill", "Servicing"}, []string{"Service two split ACs", "Refill AC gas", "Fix AC leaking water"}},
	}

	locations = []models.Location{
		{City: "Ikeja", LGA: "Ikeja", State: "Lagos"},
		{City: "Lekki", LGA: "Eti-Osa", State: "Lagos"},
		{City: "Surulere", LGA: "Surulere", State: "Lagos"},
		{City: "Yaba", LGA: "Lagos Mainland", State: "Lagos"},
		{City: "Wuse", LGA: "AMAC", State: "FCT"},
		{City: "Garki", LGA: "AMAC", State: "FCT"},
		{City: "Ibadan", LGA: "Ibadan North", State: "Oyo"},
		{City: "Port Harcourt", LGA: "Obio-Akpor", State: "Rivers"},
	}

	priceSteps = []float64{2000, 3500, 5000, 7500, 10000, 15000, 20000, 30000, 50000}
)

// Generator produces fixture records from a seeded source.
type Generator struct {
	rng  *rand.Rand
	base time.Time
}

// NewGenerator creates a Generator. Records are dated relative to base.
func NewGenerator(seed int64, base time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), base: base.UTC().Truncate(time.Second)}
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return strconv.FormatInt(g.rng.Int63(), 36)
	}
	return id.String()
}

func (g *Generator) pick(n int) int { return g.rng.Intn(n) }

func (g *Generator) priceRange() string {
	i := g.pick(len(priceSteps) - 1)
	return FormatPriceRange(priceSteps[i], priceSteps[i+1])
}

func (g *Generator) createdAt() time.Time {
	return g.base.Add(-time.Duration(g.rng.Intn(90*24)) * time.Hour)
}

// Artisans returns n artisan profiles.
func (g *Generator) Artisans(n int) []models.Artisan {
	out := make([]models.Artisan, n)
	for i := range out {
		trade := trades[g.pick(len(trades))]
		first := firstNames[g.pick(len(firstNames))]
		last := lastNames[g.pick(len(lastNames))]
		loc := locations[g.pick(len(locations))]
		out[i] = models.Artisan{
			ID:          g.id(),
			Name:        first + " " + last,
			Category:    trade.category,
			Skills:      append([]string(nil), trade.skills[:1+g.pick(len(trade.skills))]...),
			Location:    loc,
			PriceRange:  g.priceRange(),
			Rating:      float64(30+g.pick(21)) / 10,
			ReviewCount: g.pick(250),
			Verified:    g.pick(3) > 0,
			Bio:         fmt.Sprintf("%s specialist serving %s and environs.", trade.category, loc.City),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", strings.ToLower(first+last)),
		}
	}
	return out
}

// ArtisanJobs returns n open jobs as an artisan browsing for work sees them.
func (g *Generator) ArtisanJobs(n int) []models.Job {
	out := make([]models.Job, n)
	for i := range out {
		trade := trades[g.pick(len(trades))]
		title := trade.jobs[g.pick(len(trade.jobs))]
		job := models.Job{
			ID:           g.id(),
			Title:        title,
			Description:  fmt.Sprintf("%s. Materials available on site.", title),
			Category:     trade.category,
			Location:     locations[g.pick(len(locations))],
			PriceRange:   g.priceRange(),
			ScheduleType: models.ScheduleTypeScheduled,
			Status:       models.JobStatusOpen,
			CreatedAt:    g.createdAt(),
		}
		if g.pick(4) == 0 {
			job.ScheduleType = models.ScheduleTypeASAP
		}
		out[i] = job
	}
	return out
}

// JobScenarios returns customer jobs covering every status, both schedule
// types and the price bucket boundaries.
func (g *Generator) JobScenarios() []models.Job {
	statuses := []models.JobStatus{
		models.JobStatusOpen,
		models.JobStatusInProgress,
		models.JobStatusCompleted,
		models.JobStatusCancelled,
	}
	boundaries := []struct{ lo, hi float64 }{
		{0, 5000},
		{5000, 10000},
		{10000, 20000},
		{20000, 45000},
		{4000, 12000}, // straddles two buckets
	}

	var out []models.Job
	for i, status := range statuses {
		for j, sched := range []models.ScheduleType{models.ScheduleTypeASAP, models.ScheduleTypeScheduled} {
			trade := trades[(i*2+j)%len(trades)]
			b := boundaries[(i*2+j)%len(boundaries)]
			job := models.Job{
				ID:           g.id(),
				Title:        trade.jobs[j%len(trade.jobs)],
				Description:  fmt.Sprintf("%s scenario, %s.", status, strings.ToLower(string(sched))),
				Category:     trade.category,
				Location:     locations[(i+j)%len(locations)],
				PriceRange:   FormatPriceRange(b.lo, b.hi),
				ScheduleType: sched,
				Status:       status,
				CreatedAt:    g.base.Add(-time.Duration(i*2+j) * 24 * time.Hour),
			}
			if j == 0 {
				amount := b.hi
				job.Budget = &amount
			}
			out = append(out, job)
		}
	}
	return out
}

// FormatPriceRange renders "₦5,000 – ₦10,000".
func FormatPriceRange(lo, hi float64) string {
	return "₦" + groupThousands(lo) + " – ₦" + groupThousands(hi)
}

func groupThousands(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Written describes one fixture file.
type Written struct {
	Path    string
	Records int
	Bytes   int
}

// Options controls WriteAll.
type Options struct {
	Dir      string
	Seed     int64
	Artisans int
	Jobs     int
	Now      time.Time
}

func (o *Options) defaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Artisans <= 0 {
		o.Artisans = DefaultArtisans
	}
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
}

// WriteAll generates every fixture file into opts.Dir on fs.
func WriteAll(fs afero.Fs, opts Options) ([]Written, error) {
	opts.defaults()
	if err := fs.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}

	g := NewGenerator(opts.Seed, opts.Now)
	artisans := g.Artisans(opts.Artisans)
	jobs := g.ArtisanJobs(opts.Jobs)
	scenarios := g.JobScenarios()

	files := []struct {
		name    string
		records int
		data    any
	}{
		{ArtisansFile, len(artisans), artisans},
		{ArtisanJobsFile, len(jobs), jobs},
		{JobScenariosFile, len(scenarios), scenarios},
	}

	written := make([]Written, 0, len(files))
	for _, f := range files {
		data, err := json.MarshalIndent(f.data, "", "  ")
		if err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		path := filepath.Join(opts.Dir, f.name)
		if err := afero.WriteFile(fs, path, append(data, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, Written{Path: path, Records: f.records, Bytes: len(data) + 1})
	}
	return written, nil
}
