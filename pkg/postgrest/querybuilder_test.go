package postgrest

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func newTestBuilder(t *testing.T) *QueryBuilder {
	t.Helper()
	client, err := NewClient("http://localhost:3000")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	qb, err := client.From("users")
	if err != nil {
		t.Fatalf("From: %v", err)
	}
	return qb
}

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *QueryBuilder)
		key   string
		want  []string
	}{
		{
			name:  "single filter",
			build: func(q *QueryBuilder) { q.Filter("age", "gt", "18") },
			key:   "age",
			want:  []string{"gt.18"},
		},
		{
			name: "last write wins for same column and operator",
			build: func(q *QueryBuilder) {
				q.Filter("age", "gt", "18").Filter("age", "gt", "21").Filter("age", "gt", "30")
			},
			key:  "age",
			want: []string{"gt.30"},
		},
		{
			name: "distinct operators on same column coexist",
			build: func(q *QueryBuilder) {
				q.Filter("age", "gt", "18").Filter("age", "lt", "65")
			},
			key:  "age",
			want: []string{"gt.18", "lt.65"},
		},
		{
			name: "select deduplicates preserving first appearance",
			build: func(q *QueryBuilder) {
				q.Select("id", "name").Select("name", "email", "id")
			},
			key:  "select",
			want: []string{"id,name,email"},
		},
		{
			name: "second order call wins",
			build: func(q *QueryBuilder) {
				q.Order("name", true, false).Order("created_at", false, true)
			},
			key:  "order",
			want: []string{"created_at.desc.nullsfirst"},
		},
		{
			name:  "ascending nulls last",
			build: func(q *QueryBuilder) { q.Order("name", true, false) },
			key:   "order",
			want:  []string{"name.asc.nullslast"},
		},
		{
			name:  "limit",
			build: func(q *QueryBuilder) { q.Limit(10) },
			key:   "limit",
			want:  []string{"10"},
		},
		{
			name:  "offset",
			build: func(q *QueryBuilder) { q.Offset(20) },
			key:   "offset",
			want:  []string{"20"},
		},
		{
			name:  "in filter",
			build: func(q *QueryBuilder) { q.In("status", "active", "pending") },
			key:   "status",
			want:  []string{"in.(active,pending)"},
		},
		{
			name:  "match filter",
			build: func(q *QueryBuilder) { q.Match("name", "^ann") },
			key:   "name",
			want:  []string{"match.^ann"},
		},
		{
			name:  "imatch filter",
			build: func(q *QueryBuilder) { q.IMatch("name", "^ann") },
			key:   "name",
			want:  []string{"imatch.^ann"},
		},
		{
			name:  "not composes with the inner operator",
			build: func(q *QueryBuilder) { q.Not("age", "gt", "18") },
			key:   "age",
			want:  []string{"not.gt.18"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := newTestBuilder(t)
			tt.build(qb)
			if qb.err != nil {
				t.Fatalf("unexpected builder error: %v", qb.err)
			}

			got := qb.queryValues()[tt.key]
			if len(got) != len(tt.want) {
				t.Fatalf("param %q: expected %v, got %v", tt.key, tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("param %q[%d]: expected %q, got %q", tt.key, i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestFilterUnsupportedOperator(t *testing.T) {
	qb := newTestBuilder(t)
	qb.Filter("age", "between", "18,65")

	_, err := qb.Execute(context.Background())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Op != "between" {
		t.Errorf("expected failing operator %q, got %q", "between", vErr.Op)
	}
}

func TestFilterEmptyColumn(t *testing.T) {
	qb := newTestBuilder(t)
	qb.Filter("", "gt", "18")

	_, err := qb.Execute(context.Background())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(qb.filters) != 0 {
		t.Errorf("expected no filters recorded, got %v", qb.filters)
	}
}

func TestNotWithUnsupportedInnerOperator(t *testing.T) {
	qb := newTestBuilder(t)
	qb.Not("age", "between", "18")

	_, err := qb.Execute(context.Background())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Op != "between" {
		t.Errorf("expected failing operator %q, got %q", "between", vErr.Op)
	}
}

func TestStickyErrorStopsChaining(t *testing.T) {
	qb := newTestBuilder(t)
	qb.Filter("age", "nope", "1").Filter("age", "gt", "18")

	if len(qb.filters) != 0 {
		t.Errorf("expected no filters recorded after validation failure, got %v", qb.filters)
	}
	if _, err := qb.Execute(context.Background()); err == nil {
		t.Error("expected Execute to surface the recorded ValidationError")
	}
}

func TestVerbSelection(t *testing.T) {
	tests := []struct {
		name       string
		build      func(q *QueryBuilder)
		wantMethod string
		wantPrefer string
	}{
		{
			name:       "default is GET",
			build:      func(q *QueryBuilder) {},
			wantMethod: http.MethodGet,
		},
		{
			name:       "insert is POST",
			build:      func(q *QueryBuilder) { q.Insert(map[string]any{"name": "ann"}) },
			wantMethod: http.MethodPost,
		},
		{
			name:       "upsert is POST with merge resolution",
			build:      func(q *QueryBuilder) { q.Upsert(map[string]any{"name": "ann"}) },
			wantMethod: http.MethodPost,
			wantPrefer: "resolution=merge-duplicates",
		},
		{
			name:       "update is PATCH",
			build:      func(q *QueryBuilder) { q.Update(map[string]any{"name": "ann"}) },
			wantMethod: http.MethodPatch,
		},
		{
			name:       "delete is DELETE",
			build:      func(q *QueryBuilder) { q.Delete() },
			wantMethod: http.MethodDelete,
		},
		{
			name:       "last verb call wins",
			build:      func(q *QueryBuilder) { q.Insert(map[string]any{"a": 1}).Select("id") },
			wantMethod: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := newTestBuilder(t)
			tt.build(qb)
			if qb.method != tt.wantMethod {
				t.Errorf("method: expected %s, got %s", tt.wantMethod, qb.method)
			}
			if prefer := qb.preferHeader(); prefer != tt.wantPrefer {
				t.Errorf("prefer: expected %q, got %q", tt.wantPrefer, prefer)
			}
		})
	}
}

func TestPreferHeader(t *testing.T) {
	qb := newTestBuilder(t)
	qb.Insert(map[string]any{"a": 1}).Returning(ReturnMinimal).Count(CountExact)

	want := "return=minimal,count=exact"
	if got := qb.preferHeader(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
