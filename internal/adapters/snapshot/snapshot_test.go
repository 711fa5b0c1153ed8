package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/okian/srcwatch/internal/adapters/snapshot"
	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/slots"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotRoundTrip(t *testing.T) {
	Convey("Given a snapshot store on a fresh database", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "snap.db")
		store, err := snapshot.Open(ctx, path)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When nothing was ever saved", func() {
			records, err := store.Load(ctx)

			Convey("Then loading yields an empty map", func() {
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("When a slot table is saved and reloaded", func() {
			table := []*slots.Slot{
				{
					CategoryID: "any",
					Choices:    []model.VariantChoice{{VariantID: "p", VariantName: "Platform", ValueID: "n64", ValueLabel: "N64"}},
					Record:     slots.Record{RunID: "run1", Seconds: 123.456},
				},
				{CategoryID: "stars", LevelID: "l1"},
			}
			So(store.Save(ctx, table), ShouldBeNil)

			records, err := store.Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then record state comes back keyed by slot key", func() {
				So(len(records), ShouldEqual, 2)
				rec := records["any||p=n64"]
				So(rec.RunID, ShouldEqual, "run1")
				So(rec.Seconds, ShouldEqual, 123.456)
			})

			Convey("And persisted empty slots are distinguishable from missing", func() {
				rec, ok := records["stars|l1|"]
				So(ok, ShouldBeTrue)
				So(rec.Empty(), ShouldBeTrue)
				_, ok = records["ghost||"]
				So(ok, ShouldBeFalse)
			})

			Convey("And a later save replaces the whole snapshot", func() {
				table[0].Record = slots.Record{RunID: "run2", Seconds: 100}
				So(store.Save(ctx, table[:1]), ShouldBeNil)

				records, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records["any||p=n64"].RunID, ShouldEqual, "run2")
			})
		})

		Convey("When the store is reopened", func() {
			So(store.Save(ctx, []*slots.Slot{{
				CategoryID: "any",
				Record:     slots.Record{RunID: "run1", Seconds: 50},
			}}), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := snapshot.Open(ctx, path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			Convey("Then state survives the restart", func() {
				records, err := reopened.Load(ctx)
				So(err, ShouldBeNil)
				So(records["any||"].RunID, ShouldEqual, "run1")
			})
		})
	})
}
