package cases_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/middleware"
	"github.com/nlc-digital/landcom/pkg/pagination"
)

type mockSystem struct {
	listFn       func(ctx context.Context, page pagination.PageRequest, filters cases.Filters) (*pagination.PageResult[cases.Case], error)
	findFn       func(ctx context.Context, id uuid.UUID) (*cases.Case, error)
	createFn     func(ctx context.Context, cmd cases.CreateCommand, actor cases.Actor) (*cases.Case, error)
	saveFn       func(ctx context.Context, c *cases.Case) (*cases.Case, error)
	addParcelFn  func(ctx context.Context, id uuid.UUID, cmd cases.ParcelCommand, actor cases.Actor) (*cases.Case, error)
	setGazetteFn func(ctx context.Context, id uuid.UUID, number string, actor cases.Actor) (*cases.Case, error)
	statsFn      func(ctx context.Context) (*cases.Stats, error)
}

func (m *mockSystem) Handler() *cases.Handler {
	return cases.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters cases.Filters) (*pagination.PageResult[cases.Case], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*cases.Case, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd cases.CreateCommand, actor cases.Actor) (*cases.Case, error) {
	return m.createFn(ctx, cmd, actor)
}

func (m *mockSystem) Save(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	return m.saveFn(ctx, c)
}

func (m *mockSystem) AddParcel(ctx context.Context, id uuid.UUID, cmd cases.ParcelCommand, actor cases.Actor) (*cases.Case, error) {
	return m.addParcelFn(ctx, id, cmd, actor)
}

func (m *mockSystem) SetGazetteNumber(ctx context.Context, id uuid.UUID, number string, actor cases.Actor) (*cases.Case, error) {
	return m.setGazetteFn(ctx, id, number, actor)
}

func (m *mockSystem) Stats(ctx context.Context) (*cases.Stats, error) {
	return m.statsFn(ctx)
}

func newTestHandler(sys *mockSystem) *cases.Handler {
	return cases.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *cases.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func asActor(req *http.Request, role cases.Role) *http.Request {
	actor := middleware.Actor{Name: "Jane Wanjiku", Role: string(role)}
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestHandlerList(t *testing.T) {
	c := cases.NewCase(validCommand(), cases.Actor{Name: "Jane Wanjiku", Role: cases.RoleAcquiringBody}, testNow)

	t.Run("returns paginated list", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, _ cases.Filters) (*pagination.PageResult[cases.Case], error) {
				result := pagination.NewPageResult([]cases.Case{c}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/cases", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[cases.Case]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 {
			t.Errorf("total = %d, want 1", result.Total)
		}
		if len(result.Data) != 1 || result.Data[0].ID != c.ID {
			t.Errorf("data = %v, want the sample case", result.Data)
		}
	})

	t.Run("passes query filters", func(t *testing.T) {
		var captured cases.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f cases.Filters) (*pagination.PageResult[cases.Case], error) {
				captured = f
				result := pagination.NewPageResult([]cases.Case{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/cases?status=Submitted&acquiring_body=KeNHA&funds_deposited=true", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Status == nil || *captured.Status != "Submitted" {
			t.Errorf("status filter = %v, want Submitted", captured.Status)
		}
		if captured.AcquiringBody == nil || *captured.AcquiringBody != "KeNHA" {
			t.Errorf("acquiring_body filter = %v, want KeNHA", captured.AcquiringBody)
		}
		if captured.FundsDeposited == nil || !*captured.FundsDeposited {
			t.Errorf("funds_deposited filter = %v, want true", captured.FundsDeposited)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	t.Run("normalizes pagination", func(t *testing.T) {
		var capturedPage pagination.PageRequest
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, _ cases.Filters) (*pagination.PageResult[cases.Case], error) {
				capturedPage = page
				result := pagination.NewPageResult([]cases.Case{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.SearchRequest{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedPage.Page != 1 {
			t.Errorf("page = %d, want 1 (normalized)", capturedPage.Page)
		}
		if capturedPage.PageSize != 20 {
			t.Errorf("page_size = %d, want 20 (default)", capturedPage.PageSize)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases/search", bytes.NewReader([]byte("not json")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerStats(t *testing.T) {
	sys := &mockSystem{
		statsFn: func(_ context.Context) (*cases.Stats, error) {
			return &cases.Stats{
				TotalRequests:     12,
				PendingReviews:    3,
				TotalCompensation: 42_000_000,
				CompletedProjects: 2,
			}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cases/stats", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats cases.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalRequests != 12 || stats.PendingReviews != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandlerFind(t *testing.T) {
	c := cases.NewCase(validCommand(), cases.Actor{Role: cases.RoleAcquiringBody}, testNow)

	t.Run("returns case by id", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*cases.Case, error) {
				if id != c.ID {
					return nil, cases.ErrNotFound
				}
				return &c, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/cases/"+c.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/cases/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*cases.Case, error) {
				return nil, cases.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/cases/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	c := cases.NewCase(validCommand(), cases.Actor{Name: "Jane Wanjiku", Role: cases.RoleAcquiringBody}, testNow)

	t.Run("creates case", func(t *testing.T) {
		var capturedCmd cases.CreateCommand
		var capturedActor cases.Actor
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd cases.CreateCommand, actor cases.Actor) (*cases.Case, error) {
				capturedCmd = cmd
				capturedActor = actor
				return &c, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(validCommand())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleAcquiringBody))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if capturedCmd.Title != "Nairobi Expressway Extension" {
			t.Errorf("title = %q", capturedCmd.Title)
		}
		if capturedActor.Role != cases.RoleAcquiringBody {
			t.Errorf("actor role = %q", capturedActor.Role)
		}
	})

	t.Run("missing actor returns 401", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(validCommand())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown role returns 403", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(validCommand())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases", bytes.NewReader(body))
		req = req.WithContext(middleware.WithActor(req.Context(), middleware.Actor{Name: "X", Role: "JANITOR"}))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases", bytes.NewReader([]byte("not json")))
		mux.ServeHTTP(rec, asActor(req, cases.RoleAcquiringBody))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ cases.CreateCommand, _ cases.Actor) (*cases.Case, error) {
				return nil, cases.ErrInvalidCase
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.CreateCommand{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleAcquiringBody))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerSetGazetteNumber(t *testing.T) {
	c := cases.NewCase(validCommand(), cases.Actor{Role: cases.RoleChairman}, testNow)

	t.Run("records gazette number", func(t *testing.T) {
		var capturedNumber string
		sys := &mockSystem{
			setGazetteFn: func(_ context.Context, _ uuid.UUID, number string, _ cases.Actor) (*cases.Case, error) {
				capturedNumber = number
				return &c, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.GazetteNumberRequest{Number: "Vol. CXXVIII No. 42"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PATCH", "/cases/"+c.ID.String()+"/gazette-number", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleChairman))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedNumber != "Vol. CXXVIII No. 42" {
			t.Errorf("number = %q", capturedNumber)
		}
	})

	t.Run("too early maps to 409", func(t *testing.T) {
		sys := &mockSystem{
			setGazetteFn: func(_ context.Context, _ uuid.UUID, _ string, _ cases.Actor) (*cases.Case, error) {
				return nil, cases.ErrGazetteTooEarly
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.GazetteNumberRequest{Number: "Vol. CXXVIII No. 42"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PATCH", "/cases/"+c.ID.String()+"/gazette-number", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleChairman))

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestHandlerAddParcel(t *testing.T) {
	c := cases.NewCase(validCommand(), cases.Actor{Role: cases.RoleValuationTeam}, testNow)

	t.Run("registers parcel", func(t *testing.T) {
		var capturedCmd cases.ParcelCommand
		sys := &mockSystem{
			addParcelFn: func(_ context.Context, _ uuid.UUID, cmd cases.ParcelCommand, _ cases.Actor) (*cases.Case, error) {
				capturedCmd = cmd
				return &c, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.ParcelCommand{
			ParcelNumber:   "NRB/BLOCK12/345",
			Owner:          "Mary Njeri",
			Size:           "1.25 ha",
			EstimatedValue: 4_500_000,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases/"+c.ID.String()+"/parcels", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleValuationTeam))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if capturedCmd.ParcelNumber != "NRB/BLOCK12/345" {
			t.Errorf("parcel number = %q", capturedCmd.ParcelNumber)
		}
	})

	t.Run("case not found maps to 404", func(t *testing.T) {
		sys := &mockSystem{
			addParcelFn: func(_ context.Context, _ uuid.UUID, _ cases.ParcelCommand, _ cases.Actor) (*cases.Case, error) {
				return nil, cases.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(cases.ParcelCommand{ParcelNumber: "NRB/BLOCK12/345"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/cases/"+uuid.New().String()+"/parcels", bytes.NewReader(body))
		mux.ServeHTTP(rec, asActor(req, cases.RoleValuationTeam))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	group := newTestHandler(sys).Routes()

	if group.Prefix != "/cases" {
		t.Errorf("prefix = %q, want /cases", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", ""},
		{"POST", ""},
		{"POST", "/search"},
		{"GET", "/stats"},
		{"GET", "/{id}"},
		{"PATCH", "/{id}/gazette-number"},
		{"POST", "/{id}/parcels"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
	}
}

func TestMutate(t *testing.T) {
	base := cases.NewCase(validCommand(), cases.Actor{Role: cases.RoleAcquiringBody}, testNow)

	t.Run("applies and saves", func(t *testing.T) {
		var saved *cases.Case
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*cases.Case, error) {
				c := base.Clone()
				return &c, nil
			},
			saveFn: func(_ context.Context, c *cases.Case) (*cases.Case, error) {
				saved = c
				return c, nil
			},
		}

		out, err := cases.Mutate(context.Background(), sys, base.ID, func(c cases.Case) (cases.Case, error) {
			c.Description = "amended"
			return c, nil
		})
		if err != nil {
			t.Fatalf("Mutate() error = %v", err)
		}
		if out.Description != "amended" || saved.Description != "amended" {
			t.Error("mutation not saved")
		}
	})

	t.Run("retries on conflict", func(t *testing.T) {
		attempts := 0
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*cases.Case, error) {
				c := base.Clone()
				return &c, nil
			},
			saveFn: func(_ context.Context, c *cases.Case) (*cases.Case, error) {
				attempts++
				if attempts < 3 {
					return nil, cases.ErrConflict
				}
				return c, nil
			},
		}

		_, err := cases.Mutate(context.Background(), sys, base.ID, func(c cases.Case) (cases.Case, error) {
			return c, nil
		})
		if err != nil {
			t.Fatalf("Mutate() error = %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*cases.Case, error) {
				c := base.Clone()
				return &c, nil
			},
			saveFn: func(_ context.Context, _ *cases.Case) (*cases.Case, error) {
				return nil, cases.ErrConflict
			},
		}

		_, err := cases.Mutate(context.Background(), sys, base.ID, func(c cases.Case) (cases.Case, error) {
			return c, nil
		})
		if !errors.Is(err, cases.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("fn error surfaces without retry", func(t *testing.T) {
		finds := 0
		wantErr := errors.New("domain rejection")
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*cases.Case, error) {
				finds++
				c := base.Clone()
				return &c, nil
			},
		}

		_, err := cases.Mutate(context.Background(), sys, base.ID, func(_ cases.Case) (cases.Case, error) {
			return cases.Case{}, wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v, want domain rejection", err)
		}
		if finds != 1 {
			t.Errorf("find calls = %d, want 1", finds)
		}
	})
}
