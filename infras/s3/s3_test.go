package s3_test

import (
	"testing"

	"libraryhub/config"
	"libraryhub/infras/otel/mocks"
	"libraryhub/infras/s3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.library.test/rooms-bucket/room/a.png", s3.PublicURL("https://cdn.library.test/", "rooms-bucket", "room/a.png"))
}

func TestGetObjectNameFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.library.test"
	cfg.External.S3.APIEndpoint = "https://s3.library.test"
	cfg.External.S3.BucketName = "rooms-bucket"
	cfg.External.S3.AccessKeyID = "key"
	cfg.External.S3.SecretAccessKey = "secret"

	client, err := s3.New(cfg, mocks.NewOtel())
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.library.test/rooms-bucket/room/a.png", want: "a.png"},
		{name: "api endpoint", url: "https://s3.library.test/rooms-bucket/room/b.jpg", want: "b.jpg"},
		{name: "other bucket", url: "https://cdn.library.test/other/room/a.png", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.GetObjectNameFromURL("", tt.url))
		})
	}
}
