package permissions_test

import (
	"net/http"
	"testing"

	"libraryhub/permissions"
	"libraryhub/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "health is public", path: "/v1/health", method: http.MethodGet, wantSkip: true},
		{name: "admin cancel", path: "/v1/reservations/admin/{id}", method: http.MethodDelete, wantRoles: []string{constant.RoleAdmin}},
		{name: "clear room", path: "/v1/admin/rooms/{id}/reservations", method: http.MethodDelete, wantRoles: []string{constant.RoleAdmin}},
		{name: "own cancel has no role gate", path: "/v1/reservations/{id}", method: http.MethodDelete},
		{name: "method matters", path: "/v1/admin/rooms", method: http.MethodPatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)

			if len(tt.wantRoles) == 0 {
				assert.Empty(t, permission.Permissions)

				return
			}

			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}
