package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/caa-backend/internal/platform/imagehost"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const avatarSize = 256

// Category colors from the seed catalog plus the default.
var avatarPalette = []color.NRGBA{
	{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF},
	{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF},
	{R: 0x95, G: 0xE1, B: 0xD3, A: 0xFF},
	{R: 0xF3, G: 0x81, B: 0x81, A: 0xFF},
}

type AvatarService interface {
	// GeneratePatientAvatar renders an initials PNG for name.
	GeneratePatientAvatar(name string) (bytes.Buffer, error)
	// CreateAndUploadPatientAvatar renders the avatar and returns its public URL.
	CreateAndUploadPatientAvatar(ctx context.Context, name string) (string, error)
}

type avatarService struct {
	log      *logger.Logger
	host     imagehost.Host
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, host imagehost.Host) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")
	face, err := loadFontFace(goregular.TTF, avatarSize*0.4)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	return &avatarService{log: serviceLog, host: host, fontFace: face}, nil
}

func (as *avatarService) CreateAndUploadPatientAvatar(ctx context.Context, name string) (string, error) {
	if as.host == nil {
		return "", fmt.Errorf("no image host configured")
	}
	buf, err := as.GeneratePatientAvatar(name)
	if err != nil {
		return "", err
	}
	url, err := as.host.Upload(ctx, imagehost.Image{
		Filename:    "avatar_" + imagehost.SecureFilename(name) + ".png",
		ContentType: "image/png",
		Data:        buf.Bytes(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload patient avatar: %w", err)
	}
	return url, nil
}

func (as *avatarService) GeneratePatientAvatar(name string) (bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	// Clip to circle
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()

	dc.SetColor(avatarColor(name))
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(name), avatarSize/2, avatarSize/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// avatarColor is stable per name.
func avatarColor(name string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// computeInitials takes the first letter of the first and last words.
func computeInitials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := firstLetter(words[0])
	if len(words) == 1 {
		return first
	}
	return first + firstLetter(words[len(words)-1])
}

func firstLetter(word string) string {
	for _, r := range word {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
