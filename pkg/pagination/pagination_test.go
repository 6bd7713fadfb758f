package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext_Disabled(t *testing.T) {
	p := paramsFor("/")
	if p.Enabled {
		t.Error("expected pagination off without limit/offset")
	}
	if p.SQL() != "" {
		t.Errorf("expected empty SQL, got %q", p.SQL())
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := paramsFor("/?limit=50&offset=10")
	if !p.Enabled || p.Limit != 50 || p.Offset != 10 {
		t.Errorf("unexpected params %+v", p)
	}
	if p.SQL() != "LIMIT 50 OFFSET 10" {
		t.Errorf("unexpected SQL %q", p.SQL())
	}
}

func TestFromContext_OffsetOnlyUsesDefaultLimit(t *testing.T) {
	p := paramsFor("/?offset=5")
	if !p.Enabled || p.Limit != DefaultLimit || p.Offset != 5 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestFromContext_Clamps(t *testing.T) {
	tests := []struct {
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"/?limit=500", MaxLimit, 0},
		{"/?limit=0", DefaultLimit, 0},
		{"/?limit=abc", DefaultLimit, 0},
		{"/?limit=10&offset=-5", 10, 0},
	}
	for _, tt := range tests {
		p := paramsFor(tt.target)
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%s: got limit=%d offset=%d, want %d/%d", tt.target, p.Limit, p.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestBody(t *testing.T) {
	rows := []string{"a", "b"}

	off := Params{}
	if got, ok := off.Body(rows, 2).([]string); !ok || len(got) != 2 {
		t.Errorf("expected bare slice when disabled, got %#v", off.Body(rows, 2))
	}

	on := Params{Enabled: true, Limit: 2, Offset: 0}
	page, ok := on.Body(rows, 5).(*Page)
	if !ok {
		t.Fatalf("expected *Page, got %T", on.Body(rows, 5))
	}
	if page.Count != 5 || !page.HasMore || page.Limit != 2 {
		t.Errorf("unexpected page %+v", page)
	}

	last := Params{Enabled: true, Limit: 2, Offset: 4}
	if last.Body(rows, 5).(*Page).HasMore {
		t.Error("expected no more results on last page")
	}
}
