package service

import (
	"context"
	"errors"
	"strings"

	"canvassers_backend/internals/features/branches/model"
)

// ErrBranchNotFound: slot_location user tidak cocok dengan tepat satu cabang.
var ErrBranchNotFound = errors.New("assigned branch not found, please contact admin to set your slot location")

// Directory adalah sumber daftar cabang.
type Directory interface {
	ListBranches(ctx context.Context) ([]model.BranchModel, error)
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Resolve mencari cabang untuk slot location. Nol atau lebih dari satu kecocokan = ErrBranchNotFound.
func Resolve(branches []model.BranchModel, slotLocation string) (model.BranchModel, error) {
	key := normalizeAddress(slotLocation)
	if key == "" {
		return model.BranchModel{}, ErrBranchNotFound
	}

	var (
		found model.BranchModel
		n     int
	)
	for _, b := range branches {
		if normalizeAddress(b.Address) == key {
			found = b
			n++
		}
	}
	if n != 1 {
		return model.BranchModel{}, ErrBranchNotFound
	}
	return found, nil
}
