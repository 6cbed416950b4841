package middleware

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func roleGateRouter(roles ...model.UserRole) (*gin.Engine, func(role model.UserRole) int) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			role := model.UserRole(c.GetHeader("X-Test-Role"))
			c.Set("user", &util.Claims{UserID: 1, Role: role})
		},
		RoleMiddleware(roles...),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r, func(role model.UserRole) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("X-Test-Role", string(role))
		r.ServeHTTP(w, req)
		return w.Code
	}
}

func TestRoleMiddleware(t *testing.T) {
	_, hit := roleGateRouter(model.Teacher)

	tests := []struct {
		name string
		role model.UserRole
		want int
	}{
		{"matching role passes", model.Teacher, http.StatusOK},
		{"platform admin passes every gate", model.Admin, http.StatusOK},
		{"other role is forbidden", model.Student, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hit(tt.role); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoleMiddlewareWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RoleMiddleware(model.Teacher), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
