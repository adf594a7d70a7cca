package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestWithPrincipal_PrincipalFromCtx(t *testing.T) {
	p := Principal{UserID: uuid.New(), CompanyID: "CMP-1", Role: RoleHost}
	ctx := WithPrincipal(context.Background(), p)

	got, err := PrincipalFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != p {
		t.Fatalf("expected %+v, got %+v", p, got)
	}
}

func TestPrincipalFromCtx_EmptyContext(t *testing.T) {
	_, err := PrincipalFromCtx(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPrincipalFromCtx_NilUserID(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{Role: RoleHost})
	_, err := PrincipalFromCtx(ctx)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for uuid.Nil, got %v", err)
	}
}

func TestPrincipal_Trusted(t *testing.T) {
	if (Principal{Role: RoleHost}).Trusted() {
		t.Fatal("host must not be trusted")
	}
	if !(Principal{Role: RoleDirectorySync}).Trusted() {
		t.Fatal("directory-sync must be trusted")
	}
}

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleHost, true},
		{RoleDirectorySync, true},
		{"admin", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequireSameUser(t *testing.T) {
	self := uuid.New()
	ctx := WithPrincipal(context.Background(), Principal{UserID: self, Role: RoleHost})

	if err := RequireSameUser(ctx, self); err != nil {
		t.Fatalf("same user: unexpected error %v", err)
	}
	if err := RequireSameUser(ctx, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user: expected ErrForbidden, got %v", err)
	}
	if err := RequireSameUser(context.Background(), self); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("no principal: expected ErrUnauthenticated, got %v", err)
	}
}
