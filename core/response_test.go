package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	t.Run("wraps data with null error and success status", func(t *testing.T) {
		w := httptest.NewRecorder()

		type payload struct {
			Name string `json:"name"`
		}
		if err := Success(w, payload{Name: "acme"}); err != nil {
			t.Fatalf("Success() error = %v", err)
		}

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var envelope map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}

		if envelope["status"] != "success" {
			t.Errorf("status field = %v, want success", envelope["status"])
		}
		if envelope["error"] != nil {
			t.Errorf("error field = %v, want null", envelope["error"])
		}
		data, ok := envelope["data"].(map[string]any)
		if !ok {
			t.Fatalf("data field = %v, want object", envelope["data"])
		}
		if data["name"] != "acme" {
			t.Errorf("data.name = %v, want acme", data["name"])
		}
	})
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()

	if err := Created(w, map[string]string{"id": "1"}); err != nil {
		t.Fatalf("Created() error = %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	if err := NoContent(w); err != nil {
		t.Fatalf("NoContent() error = %v", err)
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestWriteAPIError(t *testing.T) {
	t.Run("writes error envelope with null data", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/v1/organizations/123", nil)

		apiErr := NewAPIError(CodeNotFound, "Organization not found")
		if err := WriteAPIError(w, r, apiErr); err != nil {
			t.Fatalf("WriteAPIError() error = %v", err)
		}

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}

		var envelope map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}

		if envelope["status"] != "error" {
			t.Errorf("status field = %v, want error", envelope["status"])
		}
		if envelope["error"] != "Organization not found" {
			t.Errorf("error field = %v, want message", envelope["error"])
		}
		if envelope["data"] != nil {
			t.Errorf("data field = %v, want null", envelope["data"])
		}
	})

	t.Run("conflict maps to 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/v1/organizations", nil)

		apiErr := NewAPIError(CodeConflict, "An organization with this name already exists")
		WriteAPIError(w, r, apiErr)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestOKPaginated(t *testing.T) {
	meta := NewPaginationMeta(25, PaginationParams{Page: 2, PerPage: 10})
	resp := OKPaginated([]int{1, 2, 3}, meta)

	if resp.Status != "success" {
		t.Errorf("Status = %q, want success", resp.Status)
	}
	if resp.Meta == nil {
		t.Fatal("Meta = nil, want pagination metadata")
	}
	if resp.Meta.TotalPages != 3 {
		t.Errorf("Meta.TotalPages = %d, want 3", resp.Meta.TotalPages)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := envelope["meta"]; !ok {
		t.Error("expected meta key in paginated envelope")
	}
}

func TestOKOmitsMeta(t *testing.T) {
	body, err := json.Marshal(OK("x"))
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := envelope["meta"]; ok {
		t.Error("expected meta to be omitted for unpaginated envelope")
	}
}

func TestHealth(t *testing.T) {
	t.Run("ok status yields 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		Health(w, "ok", map[string]bool{"database": true})

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("degraded status yields 503", func(t *testing.T) {
		w := httptest.NewRecorder()
		Health(w, "degraded", map[string]bool{"database": false})

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}
