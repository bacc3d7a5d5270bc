package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jigu1688/sporttools-sub000/internal/client"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	convey.Convey("Given a fake server", t, func() {
		var submits atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST /scores/calculate", func(w http.ResponseWriter, r *http.Request) {
			var m model.Measurement
			_ = json.NewDecoder(r.Body).Decode(&m)
			if m.StudentID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"bad_request","message":"studentId is required"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(model.ScoreBreakdown{CompositeScore: 88, GradeLevel: "良好"})
		})
		mux.HandleFunc("POST /measurements", func(w http.ResponseWriter, _ *http.Request) {
			submits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"code":"unavailable","message":"service not started"}`))
		})
		mux.HandleFunc("GET /ranking", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]types.Entry{{Rank: 1, StudentID: r.URL.Query().Get("limit")}})
		})
		mux.HandleFunc("GET /meets/{id}/schedule", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]model.ScheduledHeat{{ID: "h1", SportsMeetID: r.PathValue("id")}})
		})
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		srv := httptest.NewServer(mux)
		convey.Reset(srv.Close)

		c := client.New(srv.URL, client.WithRetries(0))
		ctx := context.Background()

		convey.Convey("When a measurement is calculated", func() {
			res, err := c.Calculate(ctx, model.Measurement{StudentID: "s1", Grade: "初一"})

			convey.Convey("Then the breakdown is decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.CompositeScore, convey.ShouldEqual, 88)
				convey.So(res.GradeLevel, convey.ShouldEqual, "良好")
			})
		})

		convey.Convey("When the server rejects the request", func() {
			_, err := c.Calculate(ctx, model.Measurement{Grade: "初一"})

			convey.Convey("Then the API error is returned", func() {
				var apiErr *client.APIError
				convey.So(errors.As(err, &apiErr), convey.ShouldBeTrue)
				convey.So(apiErr.Status, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(apiErr.Code, convey.ShouldEqual, "bad_request")
				convey.So(errors.Is(err, client.ErrUnavailable), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the server is unavailable", func() {
			_, err := c.Submit(ctx, model.Measurement{StudentID: "s1", Grade: "初一"})

			convey.Convey("Then the error unwraps to ErrUnavailable", func() {
				convey.So(errors.Is(err, client.ErrUnavailable), convey.ShouldBeTrue)
				convey.So(submits.Load(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When reads are made", func() {
			top, err := c.Ranking(ctx, 3)
			convey.So(err, convey.ShouldBeNil)
			heats, err := c.Schedule(ctx, "m1")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then query and path parameters are sent", func() {
				convey.So(top, convey.ShouldHaveLength, 1)
				convey.So(top[0].StudentID, convey.ShouldEqual, "3")
				convey.So(heats[0].SportsMeetID, convey.ShouldEqual, "m1")
				convey.So(c.Health(ctx), convey.ShouldBeNil)
			})
		})
	})
}
