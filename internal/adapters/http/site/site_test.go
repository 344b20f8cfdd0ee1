package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then / serves the dashboard page", func() {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				for _, id := range []string{`id="suicides"`, `id="sex"`, `id="population"`, `id="countrycl"`, `id="selectedSex"`} {
					So(body, ShouldContainSubstring, id)
				}
			})

			Convey("And the country selector starts with all", func() {
				req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				// FileServer redirects /index.html to /
				So(w.Code, ShouldEqual, http.StatusMovedPermanently)

				req = httptest.NewRequest(http.MethodGet, "/", nil)
				w = httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				body := w.Body.String()
				sel := body[strings.Index(body, `id="countrycl"`):]
				So(strings.Index(sel, "<option"), ShouldEqual, strings.Index(sel, `<option value="all">`))
			})

			Convey("And it serves the assets", func() {
				for _, p := range []string{"/app.js", "/style.css"} {
					req := httptest.NewRequest(http.MethodGet, p, nil)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)
					So(w.Code, ShouldEqual, http.StatusOK)
				}
			})

			Convey("And unknown assets are 404", func() {
				req := httptest.NewRequest(http.MethodGet, "/some-asset", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And writes are refused", func() {
				req := httptest.NewRequest(http.MethodPost, "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() {
				Register(context.Background(), nil)
			}, ShouldPanic)
		})
	})
}
