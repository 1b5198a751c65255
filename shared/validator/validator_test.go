package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"libraryhub/shared/failure"
	"libraryhub/shared/validator"

	"github.com/stretchr/testify/assert"
)

type slotRequest struct {
	RoomID    int64  `json:"room_id"          validate:"required"`
	Topic     string `json:"topic_description" validate:"omitempty,max=10"`
	Date      string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time"       validate:"required,clock"`
	EndTime   string `json:"end_time"         validate:"required,clock,clockafter=StartTime"`
	GroupSize int    `json:"group_size"       validate:"required,min=1"`
}

func validSlot() slotRequest {
	return slotRequest{
		RoomID:    3,
		Topic:     "thesis",
		Date:      "2024-05-01",
		StartTime: "09:00",
		EndTime:   "10:00",
		GroupSize: 4,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(req *slotRequest)
		wantErrMsg string
	}{
		{
			name:   "valid request",
			mutate: func(*slotRequest) {},
		},
		{
			name:       "missing room",
			mutate:     func(req *slotRequest) { req.RoomID = 0 },
			wantErrMsg: "room_id is required",
		},
		{
			name:       "topic too long",
			mutate:     func(req *slotRequest) { req.Topic = "a very long topic" },
			wantErrMsg: "topic_description must be less than or equal to 10",
		},
		{
			name:       "bad date",
			mutate:     func(req *slotRequest) { req.Date = "01/05/2024" },
			wantErrMsg: "reservation_date must match the format 2006-01-02",
		},
		{
			name:       "bad start time",
			mutate:     func(req *slotRequest) { req.StartTime = "9am" },
			wantErrMsg: "start_time must be a time of day in HH:MM format",
		},
		{
			name:       "end before start",
			mutate:     func(req *slotRequest) { req.EndTime = "08:30" },
			wantErrMsg: "end_time must be later than StartTime",
		},
		{
			name:       "end equals start",
			mutate:     func(req *slotRequest) { req.EndTime = "09:00" },
			wantErrMsg: "end_time must be later than StartTime",
		},
		{
			name:       "empty group",
			mutate:     func(req *slotRequest) { req.GroupSize = -1 },
			wantErrMsg: "group_size must be greater than or equal to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSlot()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantErrMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErrMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid email", field: "reader@library.test", tag: "email"},
		{name: "invalid email", field: "reader", tag: "email", expectError: true},
		{name: "valid clock", field: "23:59", tag: "clock"},
		{name: "invalid clock", field: "24:61", tag: "clock", expectError: true},
		{name: "valid oneof", field: "Admin", tag: "oneof=Customer Author Admin"},
		{name: "invalid oneof", field: "root", tag: "oneof=Customer Author Admin", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid body",
			jsonBody: `{"room_id":3,"reservation_date":"2024-05-01","start_time":"09:00","end_time":"10:00","group_size":4}`,
		},
		{
			name:        "invalid field",
			jsonBody:    `{"room_id":3,"reservation_date":"2024-05-01","start_time":"09:00","end_time":"10:00","group_size":0}`,
			expectError: true,
		},
		{
			name:        "malformed body",
			jsonBody:    `{"room_id":}`,
			expectError: true,
		},
		{
			name:        "empty body",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data slotRequest

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(3), data.RoomID)
			}
		})
	}
}
