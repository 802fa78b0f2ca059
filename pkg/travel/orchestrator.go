package travel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"
	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/metrics"
	"haruhi-agent-be/pkg/websearch"
)

const (
	CoordinatorName = "Haruhi Agent - Super Agent"
	expertQuery     = "AI expert Singapore"
	ctaBase         = "https://travel.example/itinerary"
)

var ErrEmptyMessage = errors.New("message is required")

type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

type Searcher interface {
	Query(ctx context.Context, q string, num int) websearch.Result
}

type Scheduler interface {
	CreateEvent(ctx context.Context, userID string, req calendar.EventRequest) calendar.Result
}

type Poster interface {
	CreatePost(ctx context.Context, post circlo.Post) circlo.Response
	Close() error
}

type Summarizer interface {
	Chat(ctx context.Context, messages []llm.Message, maxTokens int, temperature float64) (string, bool)
}

// ItineraryBooked is handed to the BookingPublisher after every run.
type ItineraryBooked struct {
	UserID      string    `json:"user_id"`
	Destination string    `json:"destination"`
	When        string    `json:"when"`
	Flights     []Flight  `json:"flights"`
	Hotels      []Hotel   `json:"hotels"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type BookingPublisher interface {
	PublishItinerary(ctx context.Context, booking ItineraryBooked) error
}

type Request struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	AutoSchedule bool   `json:"auto_schedule"`
	StartISO     string `json:"start_iso"`
	EndISO       string `json:"end_iso"`
	PostSummary  bool   `json:"post_summary"`
	Summarize    bool   `json:"summarize"`
}

type HelperError struct {
	Helper string `json:"helper"`
	Error  string `json:"error"`
}

type Result struct {
	Coordinator  string           `json:"coordinator"`
	Message      string           `json:"message"`
	UserID       string           `json:"user_id"`
	Intent       Intent           `json:"intent"`
	Helpers      []HelperAgent    `json:"helpers"`
	Flights      []Flight         `json:"flights"`
	Hotels       []Hotel          `json:"hotels"`
	Experts      []websearch.Hit  `json:"experts,omitempty"`
	Scheduled    []map[string]any `json:"scheduled,omitempty"`
	Posted       *circlo.Response `json:"posted,omitempty"`
	Summary      string           `json:"summary,omitempty"`
	HelperErrors []HelperError    `json:"helper_errors,omitempty"`
	CTA          string           `json:"cta"`
}

type HelperAgent struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

var defaultHelperAgents = []HelperAgent{
	{Name: "FlightFinder", Role: "search and compare flights"},
	{Name: "HotelFinder", Role: "search and compare hotels"},
}

type Orchestrator struct {
	flights    []FlightHelper
	hotels     []HotelHelper
	search     Searcher
	scheduler  Scheduler
	dial       func() (Poster, error)
	summarizer Summarizer
	bookings   BookingPublisher
	logger     Logger
}

type Option func(*Orchestrator)

func WithSearch(s Searcher) Option { return func(o *Orchestrator) { o.search = s } }

func WithScheduler(s Scheduler) Option { return func(o *Orchestrator) { o.scheduler = s } }

func WithPoster(dial func() (Poster, error)) Option { return func(o *Orchestrator) { o.dial = dial } }

func WithSummarizer(s Summarizer) Option { return func(o *Orchestrator) { o.summarizer = s } }

func WithBookingPublisher(p BookingPublisher) Option { return func(o *Orchestrator) { o.bookings = p } }

func WithLogger(l Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// NewOrchestrator takes the helpers in presentation order.
func NewOrchestrator(flights []FlightHelper, hotels []HotelHelper, opts ...Option) *Orchestrator {
	o := &Orchestrator{flights: flights, hotels: hotels}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultHelpers are MockAir for flights and MockLodging plus PlatformA for hotels.
func DefaultHelpers(delay time.Duration) ([]FlightHelper, []HotelHelper) {
	return []FlightHelper{MockAir{Delay: delay}},
		[]HotelHelper{MockLodging{Delay: delay}, PlatformA(delay)}
}

func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Result, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	userID := req.UserID
	if userID == "" {
		userID = "anon"
	}

	intent := ParseIntent(message)
	res := &Result{
		Coordinator: CoordinatorName,
		Message:     message,
		UserID:      userID,
		Intent:      intent,
		Helpers:     defaultHelperAgents,
		Flights:     []Flight{},
		Hotels:      []Hotel{},
		CTA:         CTAURL(userID),
	}

	o.fanOut(ctx, intent, res)

	if WantsExperts(message) && o.search != nil {
		found := o.search.Query(ctx, expertQuery, 3)
		if found.OK() {
			res.Experts = found.Hits
		} else {
			o.warn("Expert search failed", map[string]interface{}{"status": found.StatusCode})
		}
	}

	if req.AutoSchedule && len(res.Experts) > 0 && req.StartISO != "" && req.EndISO != "" && o.scheduler != nil {
		res.Scheduled = o.scheduleExperts(ctx, userID, res.Experts, req.StartISO, req.EndISO)
	}

	if req.Summarize && o.summarizer != nil {
		res.Summary = o.summarize(ctx, res)
	}

	if req.PostSummary && o.dial != nil {
		res.Posted = o.post(ctx, res)
	}

	if o.bookings != nil {
		err := o.bookings.PublishItinerary(ctx, ItineraryBooked{
			UserID:      userID,
			Destination: intent.Destination,
			When:        intent.When,
			Flights:     res.Flights,
			Hotels:      res.Hotels,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			o.warn("Itinerary booking not published", map[string]interface{}{"error": err.Error()})
		}
	}

	return res, nil
}

// fanOut runs the selected helpers concurrently. Each helper writes only its
// own slot and never returns an error to the group, so one failure cannot
// cancel a sibling. Slots are flattened in helper order, flights first.
func (o *Orchestrator) fanOut(ctx context.Context, intent Intent, res *Result) {
	var g errgroup.Group

	var flightSlots [][]Flight
	var flightErrs []error
	if intent.WantsFlight {
		flightSlots = make([][]Flight, len(o.flights))
		flightErrs = make([]error, len(o.flights))
		for i, h := range o.flights {
			g.Go(func() error {
				flightErrs[i] = o.timed(h.Name(), func() (err error) {
					flightSlots[i], err = h.SearchFlights(ctx, intent.Destination, intent.When)
					return err
				})
				return nil
			})
		}
	}

	var hotelSlots [][]Hotel
	var hotelErrs []error
	if intent.WantsHotel {
		hotelSlots = make([][]Hotel, len(o.hotels))
		hotelErrs = make([]error, len(o.hotels))
		for i, h := range o.hotels {
			g.Go(func() error {
				hotelErrs[i] = o.timed(h.Name(), func() (err error) {
					hotelSlots[i], err = h.SearchHotels(ctx, intent.Destination, intent.When)
					return err
				})
				return nil
			})
		}
	}

	_ = g.Wait()

	for i, slot := range flightSlots {
		if flightErrs[i] != nil {
			res.HelperErrors = append(res.HelperErrors, HelperError{Helper: o.flights[i].Name(), Error: flightErrs[i].Error()})
			continue
		}
		res.Flights = append(res.Flights, slot...)
	}
	for i, slot := range hotelSlots {
		if hotelErrs[i] != nil {
			res.HelperErrors = append(res.HelperErrors, HelperError{Helper: o.hotels[i].Name(), Error: hotelErrs[i].Error()})
			continue
		}
		res.Hotels = append(res.Hotels, slot...)
	}
}

// timed runs one helper call, converting a panic into an error and recording latency.
func (o *Orchestrator) timed(name string, call func() error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("helper panic: %v", r)
		}
		metrics.HelperDuration.WithLabelValues(name, metrics.BoolLabel(err == nil)).Observe(time.Since(start).Seconds())
		if err != nil {
			o.warn("Helper failed", map[string]interface{}{"helper": name, "error": err.Error()})
		}
	}()
	return call()
}

func (o *Orchestrator) scheduleExperts(ctx context.Context, userID string, experts []websearch.Hit, startISO, endISO string) []map[string]any {
	out := make([]map[string]any, 0, len(experts))
	for _, e := range experts {
		title := e.Title
		if title == "" {
			title = "Expert"
		}
		r := o.scheduler.CreateEvent(ctx, userID, calendar.EventRequest{
			Summary:  "Intro: " + title,
			StartISO: startISO,
			EndISO:   endISO,
		})
		entry := map[string]any{"expert": title, "status_code": r.StatusCode}
		if r.OK() {
			entry["status"] = "created"
		} else {
			entry["status"] = "failed"
			entry["error"] = r.Error
		}
		out = append(out, entry)
	}
	return out
}

func (o *Orchestrator) summarize(ctx context.Context, res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Permintaan: %s\n", res.Message)
	for _, f := range res.Flights {
		fmt.Fprintf(&b, "Penerbangan %s: %s, %s\n", f.Provider, f.Route, f.Price)
	}
	for _, h := range res.Hotels {
		fmt.Fprintf(&b, "Hotel %s: %s, %s\n", h.Provider, h.Name, h.Price)
	}
	for _, e := range res.Experts {
		fmt.Fprintf(&b, "Ahli: %s\n", e.Title)
	}

	text, ok := o.summarizer.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are Haruhi, an Indonesian travel coordinator. Summarize these search results for the user in 2-3 friendly Indonesian sentences."},
		{Role: llm.RoleUser, Content: b.String()},
	}, 200, 0.5)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func (o *Orchestrator) post(ctx context.Context, res *Result) *circlo.Response {
	conn, err := o.dial()
	if err != nil {
		o.warn("Post collaborator unavailable", map[string]interface{}{"error": err.Error()})
		return &circlo.Response{StatusCode: 502, Error: err.Error()}
	}
	defer conn.Close()

	body := fmt.Sprintf("Super Agent found %d items for %s: %d flights, %d hotels in %s (%s).",
		len(res.Flights)+len(res.Hotels), res.UserID, len(res.Flights), len(res.Hotels), res.Intent.Destination, res.Intent.When)
	resp := conn.CreatePost(ctx, circlo.Post{Title: "Itinerary result", Body: body})
	return &resp
}

// CTAURL is the deterministic itinerary link for a user.
func CTAURL(userID string) string {
	return ctaBase + "?user=" + url.QueryEscape(userID) + "&agent=" + url.PathEscape(CoordinatorName)
}

func (o *Orchestrator) warn(msg string, details map[string]interface{}) {
	if o.logger != nil {
		o.logger.Warn("ORCHESTRATOR", msg, details)
	}
}
