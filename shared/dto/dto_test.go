package dto_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"libraryhub/shared/constant"
	"libraryhub/shared/dto"
	"libraryhub/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEmpty(t, metadata.ModifiedAt)

	parsed, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(createdAt))
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          url.Values
		defaultRequest bool
		sortable       []string
		expected       dto.QueryParams
	}{
		{
			name:           "defaults applied",
			query:          url.Values{},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "no defaults",
			query:          url.Values{},
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name:           "valid paging and sorting",
			query:          url.Values{"page": {"2"}, "limit": {"25"}, "sort_by": {"capacity"}, "sort_dir": {"asc"}},
			defaultRequest: true,
			sortable:       []string{"id", "capacity"},
			expected:       dto.QueryParams{Page: 2, Limit: 25, SortBy: "capacity", SortDir: dto.SortDirAsc},
		},
		{
			name:           "unknown sort column ignored",
			query:          url.Values{"sort_by": {"capacity; DROP TABLE rooms"}, "sort_dir": {"desc"}},
			defaultRequest: false,
			sortable:       []string{"id", "capacity"},
			expected:       dto.QueryParams{SortDir: dto.SortDirDesc},
		},
		{
			name:           "invalid numbers ignored",
			query:          url.Values{"page": {"-1"}, "limit": {"abc"}, "sort_dir": {"sideways"}},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{RawQuery: tt.query.Encode()}}

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest, tt.sortable...)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "empty group",
			group:     dto.FilterGroup{},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name: "ownership check",
			group: dto.And(
				dto.Eq("reservations", "id", int64(12)),
				dto.Eq("reservations", "customer_id", int64(7)),
			),
			wantWhere: "(reservations.id = :id AND reservations.customer_id = :customer_id)",
			wantArgs:  map[string]any{"id": int64(12), "customer_id": int64(7)},
		},
		{
			name: "future reservations for a room",
			group: dto.And(
				dto.Eq("reservations", "room_id", int64(3)),
				dto.GreaterEq("reservations", "reservation_date", "2024-05-01"),
			),
			wantWhere: "(reservations.room_id = :room_id AND reservations.reservation_date >= :reservation_date)",
			wantArgs:  map[string]any{"room_id": int64(3), "reservation_date": "2024-05-01"},
		},
		{
			name: "in operator expands slice",
			group: dto.And(dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorIn,
				Value:    []string{"Available", "Occupied"},
			}),
			wantWhere: "(status IN (:status_0, :status_1))",
			wantArgs:  map[string]any{"status_0": "Available", "status_1": "Occupied"},
		},
		{
			name:      "unknown operator skipped",
			group:     dto.And(dto.Filter{Field: "status", Operator: "regex", Value: ".*"}),
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
