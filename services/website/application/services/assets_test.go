package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wono/hostpanel/services/website/domain/models"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		section string
		sub     string
		file    string
		want    string
	}{
		{"plain", "heroImages", "", "beach.png", "hosts/template/acme/heroImages/1-0_beach.jpg"},
		{"spaces", "gallery", "", "front desk view.jpeg", "hosts/template/acme/gallery/1-0_front_desk_view.jpg"},
		{"sub segment", "productImages", "3", "desk.webp", "hosts/template/acme/productImages/3/1-0_desk.jpg"},
		{"path traversal", "gallery", "", "../../etc/passwd", "hosts/template/acme/gallery/1-0_passwd.jpg"},
		{"windows path", "gallery", "", `C:\photos\lobby.png`, "hosts/template/acme/gallery/1-0_lobby.jpg"},
		{"empty name", "companyLogo", "", "", "hosts/template/acme/companyLogo/1-0_image.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objectKey("acme", tt.section, tt.sub, "1-0", tt.file, ".jpg"); got != tt.want {
				t.Fatalf("objectKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetOps_UploadPreservesOrder(t *testing.T) {
	store := &fakeStore{}
	ops := &assetOps{
		store:       store,
		transcoder:  fakeTranscoder{},
		concurrency: 3,
		metrics:     newBuilderMetrics(),
		now:         func() time.Time { return time.Unix(0, 42) },
	}
	jobs := []uploadJob{
		{section: "gallery", file: FileUpload{Name: "a.png", Data: []byte("a")}},
		{section: "gallery", file: FileUpload{Name: "b.png", Data: []byte("b")}},
		{section: "gallery", file: FileUpload{Name: "c.png", Data: []byte("c")}},
	}

	got, err := ops.upload(context.Background(), testLogger(), "acme", jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"hosts/template/acme/gallery/42-0_a.jpg",
		"hosts/template/acme/gallery/42-1_b.jpg",
		"hosts/template/acme/gallery/42-2_c.jpg",
	}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("handle %d = %q, want %q", i, got[i].ID, w)
		}
	}
}

func TestAssetOps_RemoveSkipsFailures(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("access denied")}
	ops := &assetOps{store: store, metrics: newBuilderMetrics()}

	deleted := ops.remove(context.Background(), testLogger(), []removal{
		{section: "heroImages", image: models.ImageHandle{ID: "k1", URL: "http://assets.test/k1"}},
		{section: "gallery", image: models.ImageHandle{ID: "k2", URL: "http://assets.test/k2"}},
	})
	if len(deleted) != 0 {
		t.Fatalf("deleted = %v, want none", deleted)
	}

	store.deleteErr = nil
	deleted = ops.remove(context.Background(), testLogger(), []removal{
		{section: "heroImages", image: models.ImageHandle{ID: "k1", URL: "http://assets.test/k1"}},
		{section: "gallery", image: models.ImageHandle{ID: "k2", URL: "http://assets.test/k2"}},
		{section: "gallery", image: models.ImageHandle{ID: "k3"}},
	})
	if len(deleted) != 2 {
		t.Fatalf("deleted = %v, want 2", deleted)
	}
}
