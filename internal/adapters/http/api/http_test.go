package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/cfinsight/internal/adapters/http/api"
	"github.com/okian/cfinsight/internal/adapters/session"
	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/domain/insight"
	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock dependencies that implement the Dependencies interface
type mockDependencies struct {
	known     map[string]bool
	failures  map[string]error
	coachText string
	coachErr  error
	sessions  []string
}

func newMockDependencies(handles ...string) *mockDependencies {
	m := &mockDependencies{known: map[string]bool{}, failures: map[string]error{}, coachText: "Practice dp."}
	for _, h := range handles {
		m.known[h] = true
	}
	return m
}

func (m *mockDependencies) Analyze(_ context.Context, handle string) (api.Report, error) {
	if err, ok := m.failures[handle]; ok {
		return api.Report{}, fmt.Errorf("%w: %q: %w", service.ErrUserNotFound, handle, err)
	}
	if !m.known[handle] {
		return api.Report{}, fmt.Errorf("%w: %q", service.ErrUserNotFound, handle)
	}
	rating := 1500
	return api.Report{
		Handle:   handle,
		Profile:  model.Profile{Handle: handle, Rating: &rating},
		Insights: insight.Insights{Submissions: 3, Solved: 2, BestDay: 2},
	}, nil
}

func (m *mockDependencies) Compare(_ context.Context, a, b string) (api.HeadToHead, error) {
	if !m.known[a] || !m.known[b] {
		return api.HeadToHead{}, service.ErrInvalidComparison
	}
	return api.HeadToHead{Comparison: insight.Comparison{HandleA: a, HandleB: b, CommonSolved: 4}}, nil
}

func (m *mockDependencies) Coach(_ context.Context, sessionID, handle string) (string, error) {
	m.sessions = append(m.sessions, sessionID)
	if !m.known[handle] {
		return "", service.ErrUserNotFound
	}
	return m.coachText, m.coachErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies("tourist", "petr")
		server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{}}, time.Hour)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And profile endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/api/v1/profile/tourist", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And compare endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/api/v1/compare?a=tourist&b=petr", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And coach endpoint should be accessible", func() {
				req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest) // Missing handle
			})

			Convey("And unknown paths are not served", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestProfileHandler_HandleGetProfile(t *testing.T) {
	Convey("Given a profile handler", t, func() {
		handler := api.NewProfileHandler(newMockDependencies("tourist"))

		Convey("When requesting a known handle", func() {
			req := httptest.NewRequest("GET", "/api/v1/profile/tourist", nil)
			w := httptest.NewRecorder()
			handler.HandleGetProfile(w, req)

			Convey("Then it should return the report", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response struct {
					Handle   string `json:"handle"`
					Insights struct {
						Solved int `json:"solved"`
					} `json:"insights"`
				}
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Handle, ShouldEqual, "tourist")
				So(response.Insights.Solved, ShouldEqual, 2)
			})
		})

		Convey("When requesting an unknown handle", func() {
			req := httptest.NewRequest("GET", "/api/v1/profile/ghost", nil)
			w := httptest.NewRecorder()
			handler.HandleGetProfile(w, req)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "not_found")
				So(body["message"], ShouldEqual, "User 'ghost' not found or API issue.")
			})
		})

		Convey("When the handle is missing or nested", func() {
			for _, path := range []string{"/api/v1/profile/", "/api/v1/profile/a/b"} {
				req := httptest.NewRequest("GET", path, nil)
				w := httptest.NewRecorder()
				handler.HandleGetProfile(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("POST", "/api/v1/profile/tourist", nil)
			w := httptest.NewRecorder()
			handler.HandleGetProfile(w, req)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
			})
		})
	})
}

func TestServer_FailureBodiesHideCauses(t *testing.T) {
	Convey("Given a server whose judge fails in different ways", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)

		deps := newMockDependencies("tourist")
		deps.failures["gone"] = errors.New("judge: handle not found: user.info: handles: User with handle gone not found")
		deps.failures["down"] = errors.New(`judge: transport error: user.info: Get "https://codeforces.com/api/user.info?handles=down": dial tcp: i/o timeout`)
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, time.Hour, api.WithLogger(logger.Get())).Register(context.Background(), mux)

		get := func(path string) (int, map[string]string) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w.Code, decodeError(w)
		}

		Convey("When a rejected handle and an unreachable judge are requested", func() {
			goneCode, gone := get("/api/v1/profile/gone")
			downCode, down := get("/api/v1/profile/down")

			Convey("Then both answers carry only the fixed message", func() {
				So(goneCode, ShouldEqual, http.StatusNotFound)
				So(downCode, ShouldEqual, goneCode)
				So(gone["code"], ShouldEqual, down["code"])
				So(gone["message"], ShouldEqual, "User 'gone' not found or API issue.")
				So(down["message"], ShouldEqual, "User 'down' not found or API issue.")
				So(down["message"], ShouldNotContainSubstring, "codeforces.com")
				So(gone["message"], ShouldNotContainSubstring, "judge")
			})

			Convey("Then the causes are kept in the log", func() {
				So(buf.String(), ShouldContainSubstring, "dial tcp")
				So(buf.String(), ShouldContainSubstring, "api.get_profile")
			})
		})

		Convey("When a comparison fails on either side", func() {
			code, body := get("/api/v1/compare?a=tourist&b=down")

			Convey("Then the pair message is returned without the cause", func() {
				So(code, ShouldEqual, http.StatusNotFound)
				So(body["message"], ShouldEqual, api.InvalidUsersMessage)
			})
		})
	})
}

func TestCompareHandler_HandleGetCompare(t *testing.T) {
	Convey("Given a compare handler", t, func() {
		handler := api.NewCompareHandler(newMockDependencies("tourist", "petr"))

		Convey("When comparing two known handles", func() {
			req := httptest.NewRequest("GET", "/api/v1/compare?a=tourist&b=petr", nil)
			w := httptest.NewRecorder()
			handler.HandleGetCompare(w, req)

			Convey("Then it should return the comparison", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var response insight.Comparison
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.HandleA, ShouldEqual, "tourist")
				So(response.CommonSolved, ShouldEqual, 4)
			})
		})

		Convey("When one handle is unknown", func() {
			req := httptest.NewRequest("GET", "/api/v1/compare?a=tourist&b=ghost", nil)
			w := httptest.NewRecorder()
			handler.HandleGetCompare(w, req)

			Convey("Then it should report invalid users", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "invalid_users")
			})
		})

		Convey("When a parameter is missing", func() {
			req := httptest.NewRequest("GET", "/api/v1/compare?a=tourist", nil)
			w := httptest.NewRecorder()
			handler.HandleGetCompare(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCoachHandler_HandlePostCoach(t *testing.T) {
	Convey("Given a coach handler", t, func() {
		deps := newMockDependencies("tourist")
		handler := api.NewCoachHandler(deps, time.Hour)

		Convey("When coaching a known handle without a cookie", func() {
			req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`{"handle":"tourist"}`))
			w := httptest.NewRecorder()
			handler.HandlePostCoach(w, req)

			Convey("Then the text is returned and a session is issued", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var response map[string]string
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response["text"], ShouldEqual, "Practice dp.")
				So(len(deps.sessions), ShouldEqual, 1)
				So(session.ValidID(deps.sessions[0]), ShouldBeTrue)
				So(w.Result().Cookies()[0].Value, ShouldEqual, deps.sessions[0])
			})
		})

		Convey("When the request carries a session cookie", func() {
			id := session.NewID()
			req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`{"handle":"tourist"}`))
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
			w := httptest.NewRecorder()
			handler.HandlePostCoach(w, req)

			Convey("Then that session is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.sessions, ShouldResemble, []string{id})
			})
		})

		Convey("When the handle has no tagged data", func() {
			deps.coachErr = service.ErrNotEnoughData
			req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`{"handle":"tourist"}`))
			w := httptest.NewRecorder()
			handler.HandlePostCoach(w, req)

			Convey("Then it should report an empty result", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "not_enough_data")
			})
		})

		Convey("When the handle is unknown", func() {
			req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`{"handle":"ghost"}`))
			w := httptest.NewRecorder()
			handler.HandlePostCoach(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the body is not json", func() {
			req := httptest.NewRequest("POST", "/api/v1/coach", strings.NewReader(`handle=tourist`))
			w := httptest.NewRecorder()
			handler.HandlePostCoach(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"cachedProfiles": 12,
				"sessions":       3,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["cachedProfiles"], ShouldEqual, float64(12))
				So(response["sessions"], ShouldEqual, float64(3))
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then kinds and causes both match", func() {
			err := api.WrapKind("api.op", api.ErrNotFound, cause)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: not found: boom")
		})

		Convey("Then nil causes are handled", func() {
			So(errors.Is(api.WrapKind("api.op", api.ErrBadRequest, nil), api.ErrBadRequest), ShouldBeTrue)
			So(api.NewKind("api.op", api.ErrBadRequest).Error(), ShouldEqual, "api.op: bad request")
		})
	})
}

func TestErrorType(t *testing.T) {
	Convey("Given status codes", t, func() {
		So(api.ErrorType(500), ShouldEqual, "server_error")
		So(api.ErrorType(429), ShouldEqual, "rate_limit")
		So(api.ErrorType(404), ShouldEqual, "not_found")
		So(api.ErrorType(405), ShouldEqual, "method_not_allowed")
		So(api.ErrorType(422), ShouldEqual, "empty_result")
		So(api.ErrorType(400), ShouldEqual, "client_error")
	})
}
