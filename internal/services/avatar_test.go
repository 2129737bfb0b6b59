package services

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	"github.com/yungbote/caa-backend/internal/platform/imagehost"
)

func TestComputeInitials(t *testing.T) {
	cases := map[string]string{
		"":                   "?",
		"lucas":              "L",
		"Ana Júlia":          "AJ",
		"  érica  de souza ": "ÉS",
	}
	for in, want := range cases {
		assert.Equal(t, want, computeInitials(in), in)
	}
}

func TestAvatarColorIsStable(t *testing.T) {
	assert.Equal(t, avatarColor("Lucas"), avatarColor(" lucas "))
}

func TestCreateAndUploadPatientAvatar(t *testing.T) {
	host := &fakeHost{mode: imagehost.ModeLocal}
	svc, err := NewAvatarService(testutil.Logger(t), host)
	require.NoError(t, err)

	url, err := svc.CreateAndUploadPatientAvatar(context.Background(), "Ana Júlia")
	require.NoError(t, err)
	assert.Equal(t, "/static/images/avatar_Ana_Jlia.png", url)
	require.Len(t, host.uploads, 1)

	img, err := png.Decode(bytes.NewReader(host.uploads[0].Data))
	require.NoError(t, err)
	assert.Equal(t, avatarSize, img.Bounds().Dx())
	assert.Equal(t, avatarSize, img.Bounds().Dy())
}
