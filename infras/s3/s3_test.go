package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	svc := &storageImpl{
		bucket: "tour-images",
		public: "https://cdn.tourbook.lk",
		api:    "https://s3.example.com",
	}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.tourbook.lk/tours/abc/ella.jpg", want: "tours/abc/ella.jpg"},
		{name: "api endpoint", url: "https://s3.example.com/tour-images/tours/abc/ella.jpg", want: "tours/abc/ella.jpg"},
		{name: "foreign host", url: "https://images.unsplash.com/photo-1", want: ""},
		{name: "bare prefix", url: "https://cdn.tourbook.lk/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ObjectKeyFromURL(tt.url))
		})
	}
}

func TestPublicURL(t *testing.T) {
	withDomain := &storageImpl{bucket: "b", public: "https://cdn.tourbook.lk", api: "https://s3.example.com"}
	withoutDomain := &storageImpl{bucket: "b", api: "https://s3.example.com"}

	assert.Equal(t, "https://cdn.tourbook.lk/tours/x.png", withDomain.publicURL("tours/x.png"))
	assert.Equal(t, "https://s3.example.com/b/tours/x.png", withoutDomain.publicURL("tours/x.png"))
}
