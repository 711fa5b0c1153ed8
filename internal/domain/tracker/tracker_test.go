package tracker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/srcwatch/internal/adapters/repository"
	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/seenwindow"
	"github.com/okian/srcwatch/internal/domain/slots"
	"github.com/okian/srcwatch/internal/domain/taxonomy"
	"github.com/okian/srcwatch/internal/domain/tracker"
	"github.com/okian/srcwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeSource replays a fixed page per cycle.
type fakeSource struct {
	mu    sync.Mutex
	pages [][]model.Run
	calls int
	err   error
}

func (f *fakeSource) VerifiedRuns(ctx context.Context, gameID string) ([]model.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	f.calls++
	return page, nil
}

// fakePersister counts saves and can fail on demand.
type fakePersister struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (f *fakePersister) Save(ctx context.Context, ss []*slots.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func (f *fakePersister) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// fakeEmitter records announcements in arrival order.
type fakeEmitter struct {
	mu   sync.Mutex
	anns []model.Announcement
}

func (f *fakeEmitter) Enqueue(ctx context.Context, a model.Announcement) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.anns = append(f.anns, a)
	return true
}

func (f *fakeEmitter) byKind(k model.Kind) []model.Announcement {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Announcement
	for _, a := range f.anns {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// testTaxonomy builds a game with one full-game category split by one
// two-valued subcategory variable: two slots total.
func testTaxonomy() *taxonomy.Taxonomy {
	meta := taxonomy.Metadata{
		GameID:       "g1",
		GameName:     "Test Game",
		Abbreviation: "tg",
		Categories:   []taxonomy.CategoryMeta{{ID: "any", Name: "Any%"}},
		Variables: []taxonomy.VariableMeta{{
			ID: "platform", Name: "Platform",
			Scope: taxonomy.ScopeGlobal, Subcategory: true,
			Values: map[string]string{"n64": "N64", "vc": "VC"},
		}},
	}
	tax, err := taxonomy.NewBuilder().Build(context.Background(), meta)
	So(err, ShouldBeNil)
	return tax
}

func newStore(ctx context.Context, tax *taxonomy.Taxonomy) *repository.MemoryStore {
	store := repository.NewMemoryStore(ctx)
	store.Put(ctx, slots.ExpandAll(tax))
	return store
}

func run(id string, seconds float64, platform string) model.Run {
	values := map[string]string{}
	if platform != "" {
		values["platform"] = platform
	}
	return model.Run{
		ID: id, PlayerID: "p1", PlayerName: "runner",
		CategoryID: "any", Seconds: seconds, Values: values,
	}
}

func TestCycle(t *testing.T) {
	Convey("Given a tracker over two slots", t, func() {
		ctx := context.Background()
		tax := testTaxonomy()
		store := newStore(ctx, tax)
		persist := &fakePersister{}
		emit := &fakeEmitter{}

		Convey("When the first cycle sees a run on an empty slot", func() {
			source := &fakeSource{pages: [][]model.Run{{run("r1", 100, "n64")}}}
			tr := tracker.New(tax, source, store, persist, emit)
			So(tr.Cycle(ctx), ShouldBeNil)

			Convey("Then the slot is filled and both events fire", func() {
				slot, err := store.Get(ctx, "any||platform=n64")
				So(err, ShouldBeNil)
				So(slot.Record.RunID, ShouldEqual, "r1")

				So(len(emit.byKind(model.KindNewRun)), ShouldEqual, 1)
				records := emit.byKind(model.KindNewRecord)
				So(len(records), ShouldEqual, 1)
				So(records[0].SlotKey, ShouldEqual, "any||platform=n64")
				So(records[0].CategoryName, ShouldEqual, "Any%")
				So(persist.count(), ShouldEqual, 1)
			})

			Convey("And the id is now inside the seen window", func() {
				So(tr.Window().Contains("r1"), ShouldBeTrue)
			})

			Convey("And a slower run on the same slot announces no record", func() {
				source.pages = [][]model.Run{{run("r2", 110, "n64"), run("r1", 100, "n64")}}
				So(tr.Cycle(ctx), ShouldBeNil)

				slot, _ := store.Get(ctx, "any||platform=n64")
				So(slot.Record.RunID, ShouldEqual, "r1")
				So(len(emit.byKind(model.KindNewRun)), ShouldEqual, 2)
				So(len(emit.byKind(model.KindNewRecord)), ShouldEqual, 1)
				So(persist.count(), ShouldEqual, 1)
			})

			Convey("And a faster run displaces it", func() {
				source.pages = [][]model.Run{{run("r3", 95.5, "n64"), run("r1", 100, "n64")}}
				So(tr.Cycle(ctx), ShouldBeNil)

				slot, _ := store.Get(ctx, "any||platform=n64")
				So(slot.Record.RunID, ShouldEqual, "r3")
				So(slot.Record.Seconds, ShouldEqual, 95.5)
				So(len(emit.byKind(model.KindNewRecord)), ShouldEqual, 2)
			})
		})

		Convey("When a page repeats already-seen runs", func() {
			source := &fakeSource{pages: [][]model.Run{{run("r1", 100, "n64")}}}
			tr := tracker.New(tax, source, store, persist, emit)
			So(tr.Cycle(ctx), ShouldBeNil)
			So(tr.Cycle(ctx), ShouldBeNil)

			Convey("Then the repeat cycle processes nothing", func() {
				So(len(emit.byKind(model.KindNewRun)), ShouldEqual, 1)
				So(persist.count(), ShouldEqual, 1)
			})
		})

		Convey("When runs cannot be classified", func() {
			ambiguous := run("r-ambig", 90, "") // no platform value: two candidates
			unknown := run("r-unknown", 90, "n64")
			unknown.CategoryID = "mystery"
			source := &fakeSource{pages: [][]model.Run{{ambiguous, unknown}}}
			tr := tracker.New(tax, source, store, persist, emit)
			So(tr.Cycle(ctx), ShouldBeNil)

			Convey("Then they are announced as runs but set no record", func() {
				So(len(emit.byKind(model.KindNewRun)), ShouldEqual, 2)
				So(emit.byKind(model.KindNewRecord), ShouldBeEmpty)
				for _, slot := range store.All(ctx) {
					So(slot.Record.Empty(), ShouldBeTrue)
				}
			})

			Convey("And their ids still enter the window", func() {
				So(tr.Window().Contains("r-ambig"), ShouldBeTrue)
				So(tr.Window().Contains("r-unknown"), ShouldBeTrue)
			})
		})

		Convey("When the source fails", func() {
			source := &fakeSource{err: errors.New("boom")}
			tr := tracker.New(tax, source, store, persist, emit)
			err := tr.Cycle(ctx)

			Convey("Then the cycle reports the failure without side effects", func() {
				So(err, ShouldNotBeNil)
				So(emit.byKind(model.KindNewRun), ShouldBeEmpty)
				So(persist.count(), ShouldEqual, 0)
			})
		})

		Convey("When the snapshot save fails", func() {
			persist.err = errors.New("disk gone")
			source := &fakeSource{pages: [][]model.Run{{run("r1", 100, "n64")}}}
			tr := tracker.New(tax, source, store, persist, emit)
			So(tr.Cycle(ctx), ShouldBeNil)

			Convey("Then the in-memory record stands and the event still fires", func() {
				slot, _ := store.Get(ctx, "any||platform=n64")
				So(slot.Record.RunID, ShouldEqual, "r1")
				So(len(emit.byKind(model.KindNewRecord)), ShouldEqual, 1)
			})
		})
	})
}

func TestWindowOrdering(t *testing.T) {
	Convey("Given a tracker with a small window", t, func() {
		ctx := context.Background()
		tax := testTaxonomy()
		store := newStore(ctx, tax)
		emit := &fakeEmitter{}
		window := seenwindow.New(seenwindow.WithSize(3))

		page := []model.Run{
			run("r5", 105, "n64"),
			run("r4", 104, "n64"),
			run("r3", 103, "n64"),
			run("r2", 102, "n64"),
			run("r1", 101, "n64"),
		}
		source := &fakeSource{pages: [][]model.Run{page}}
		tr := tracker.New(tax, source, store, &fakePersister{}, emit,
			tracker.WithWindow(window),
		)

		Convey("When one cycle sees more runs than the window holds", func() {
			So(tr.Cycle(ctx), ShouldBeNil)

			Convey("Then the newest ids are kept, most recent first", func() {
				So(window.IDs(), ShouldResemble, []string{"r5", "r4", "r3"})
			})

			Convey("And every run was still processed", func() {
				So(len(emit.byKind(model.KindNewRun)), ShouldEqual, 5)
			})

			Convey("And the oldest run holds the record, having been fastest", func() {
				slot, _ := store.Get(ctx, "any||platform=n64")
				So(slot.Record.RunID, ShouldEqual, "r1")
			})
		})
	})
}
