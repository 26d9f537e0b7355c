package validator_test

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"tourbook/shared/failure"
	"tourbook/shared/timezone"
	"tourbook/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	TourID       string `json:"tour_id"       validate:"required,uuid"`
	BookingDate  string `json:"booking_date"  validate:"required,notpast"`
	Participants int    `json:"participants"  validate:"required,min=1,max=50"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,min=10,phone"`
	Note         string `json:"note"          validate:"omitempty,safetext"`
}

func validBooking() bookingRequest {
	return bookingRequest{
		TourID:       "5b0c5b8e-8b0a-4a5e-9a57-0f1d9d2a6c11",
		BookingDate:  timezone.Today().AddDate(0, 0, 3).Format("2006-01-02"),
		Participants: 2,
		ContactPhone: "+94 77 123 4567",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *bookingRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(_ *bookingRequest) {}},
		{name: "today is accepted", mutate: func(b *bookingRequest) { b.BookingDate = timezone.Today().Format("2006-01-02") }},
		{
			name:    "missing tour",
			mutate:  func(b *bookingRequest) { b.TourID = "" },
			wantMsg: "tour_id is required",
		},
		{
			name:    "malformed tour id",
			mutate:  func(b *bookingRequest) { b.TourID = "tour-1" },
			wantMsg: "tour_id must be a valid ID",
		},
		{
			name:    "yesterday rejected",
			mutate:  func(b *bookingRequest) { b.BookingDate = timezone.Today().AddDate(0, 0, -1).Format("2006-01-02") },
			wantMsg: "Booking date cannot be in the past",
		},
		{
			name:    "too many participants",
			mutate:  func(b *bookingRequest) { b.Participants = 51 },
			wantMsg: "participants must be at most 50",
		},
		{
			name:    "bad phone",
			mutate:  func(b *bookingRequest) { b.ContactPhone = "call me maybe" },
			wantMsg: "Please enter a valid phone number",
		},
		{
			name:    "unsafe note",
			mutate:  func(b *bookingRequest) { b.Note = "<script>alert(1)</script>" },
			wantMsg: "note contains potentially unsafe content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validBooking()
			tt.mutate(&data)

			err := validator.ValidateStruct(&data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "phone with country code", field: "+94771234567", tag: "phone"},
		{name: "phone with dashes", field: "077-123-4567", tag: "phone"},
		{name: "short phone", field: "12345", tag: "phone", wantErr: true},
		{name: "location", field: "Nuwara Eliya, Central Province", tag: "location"},
		{name: "location with apostrophe", field: "Adam's Peak", tag: "location"},
		{name: "location with markup", field: "<b>Galle</b>", tag: "location", wantErr: true},
		{name: "safe text", field: "Loved the tea estate visit", tag: "safetext"},
		{name: "unsafe text", field: "javascript:void(0)", tag: "safetext", wantErr: true},
		{name: "rfc3339 tomorrow", field: timezone.Today().AddDate(0, 0, 1).Format("2006-01-02T15:04:05Z07:00"), tag: "notpast"},
		{name: "garbage date", field: "soon", tag: "notpast", wantErr: true},
		{name: "oneof budget", field: "mid_range", tag: "oneof=budget mid_range luxury"},
		{name: "oneof outside set", field: "premium", tag: "oneof=budget mid_range luxury", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid body",
			body: `{"tour_id":"5b0c5b8e-8b0a-4a5e-9a57-0f1d9d2a6c11","booking_date":"2999-01-01","participants":3}`,
		},
		{
			name:    "malformed json",
			body:    `{"tour_id":`,
			wantErr: true,
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, data.Participants)
		})
	}
}

func TestFileValidation(t *testing.T) {
	type upload struct {
		File *multipart.FileHeader `validate:"required,mimetypes=image/jpeg image/png,maxfilesize=1"`
	}

	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "sigiriya.jpg",
			Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
			Size:     size,
		}
	}

	assert.NoError(t, validator.ValidateStruct(&upload{File: header("image/jpeg", 512*1024)}))
	assert.Error(t, validator.ValidateStruct(&upload{File: header("application/pdf", 512)}))
	assert.Error(t, validator.ValidateStruct(&upload{File: header("image/png", 2*1024*1024)}))
}
