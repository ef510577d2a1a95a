package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/domain"
)

// The page router under test covers the non-rendering flows: successful form
// posts redirect, row and bulk deletes answer with a status code plus a flash
// cookie. Template output itself is exercised through the app package.
func newPageRouter(t *testing.T) (*gin.Engine, domain.UserRepository) {
	t.Helper()
	repo, _ := newTestRepo(t)
	ph := NewUserPageHandler(NewUserService(repo))

	r := gin.New()
	r.POST("/users", ph.Create)
	r.POST("/users/:id", ph.Update)
	r.DELETE("/users/:id", ph.Delete)
	r.DELETE("/users/bulk-delete", ph.BulkDelete)
	return r, repo
}

func postForm(r *gin.Engine, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func flashCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == "_flash" && cookie.MaxAge > 0 {
			return cookie
		}
	}
	return nil
}

func validForm() url.Values {
	return url.Values{
		"name":                  {"Alice Smith"},
		"email":                 {"alice@example.com"},
		"password":              {"secret-password"},
		"password_confirmation": {"secret-password"},
		"role":                  {"admin"},
	}
}

func TestUserPageHandler_Create_RedirectsToListing(t *testing.T) {
	r, repo := newPageRouter(t)

	w := postForm(r, "/users", validForm(), false)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want 303: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/users" {
		t.Errorf("Location = %q; want /users", loc)
	}
	if flashCookie(t, w) == nil {
		t.Error("success should queue a flash message")
	}

	users, err := repo.List(context.Background(), domain.DefaultQueryState(), 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Errorf("persisted = %v; want the submitted user", users)
	}
}

func TestUserPageHandler_Create_HTMXRedirect(t *testing.T) {
	r, _ := newPageRouter(t)

	w := postForm(r, "/users", validForm(), true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 for htmx", w.Code)
	}
	if got := w.Header().Get("HX-Redirect"); got != "/users" {
		t.Errorf("HX-Redirect = %q; want /users", got)
	}
}

func TestUserPageHandler_Update_RedirectsToListing(t *testing.T) {
	r, repo := newPageRouter(t)
	seedUsers(t, repo, 1)

	form := url.Values{
		"name":  {"Renamed User"},
		"email": {"user01@example.com"},
		"role":  {"manager"},
	}
	w := postForm(r, "/users/1", form, false)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want 303: %s", w.Code, w.Body.String())
	}

	updated, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Name != "Renamed User" || updated.Role != domain.RoleManager {
		t.Errorf("user = %+v; want the submitted changes", updated)
	}
	if updated.PasswordHash != "x" {
		t.Error("blank password should keep the stored hash")
	}
}

func TestUserPageHandler_Delete(t *testing.T) {
	r, repo := newPageRouter(t)
	seedUsers(t, repo, 2)

	doDelete := func(path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(http.MethodDelete, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(http.MethodDelete, path, nil)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success flashes and answers 200", func(t *testing.T) {
		w := doDelete("/users/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", w.Code)
		}
		if flashCookie(t, w) == nil {
			t.Error("delete should queue a flash message")
		}
	})

	t.Run("unknown id answers 404 with a flash", func(t *testing.T) {
		w := doDelete("/users/999", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d; want 404", w.Code)
		}
		if flashCookie(t, w) == nil {
			t.Error("failure should queue an error flash")
		}
	})

	t.Run("malformed id answers 400", func(t *testing.T) {
		w := doDelete("/users/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", w.Code)
		}
	})

	t.Run("bulk delete rejects a batch with unknown ids", func(t *testing.T) {
		w := doDelete("/users/bulk-delete", `{"ids":[2,999]}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d; want 422", w.Code)
		}
		if _, err := repo.GetByID(context.Background(), 2); err != nil {
			t.Errorf("user 2 should survive the rejected batch: %v", err)
		}
	})

	t.Run("bulk delete removes the batch", func(t *testing.T) {
		w := doDelete("/users/bulk-delete", `{"ids":[2]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", w.Code)
		}
		if _, err := repo.GetByID(context.Background(), 2); !domain.IsNotFound(err) {
			t.Errorf("err = %v; want not found after bulk delete", err)
		}
	})

	t.Run("bulk delete without ids answers 400", func(t *testing.T) {
		w := doDelete("/users/bulk-delete", `{"ids":[]}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", w.Code)
		}
	})
}
