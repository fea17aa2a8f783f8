package branches

import (
	"context"
	"log"
	"os"

	"canvassers_backend/internals/features/branches/dto"
	"canvassers_backend/internals/features/branches/model"
	"canvassers_backend/internals/features/branches/repository"
	helper "canvassers_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// DecodeBranches: array JSON {address, lat, long}. Baris tidak valid dilewati dengan log.
func DecodeBranches(data []byte) ([]model.BranchModel, error) {
	var inputs []dto.CreateBranchRequest
	if err := sonic.Unmarshal(data, &inputs); err != nil {
		return nil, err
	}

	out := make([]model.BranchModel, 0, len(inputs))
	for i, in := range inputs {
		if errs := helper.ValidateStruct(in); errs != nil {
			log.Printf("ℹ️ Cabang #%d dilewati: %v", i+1, errs)
			continue
		}
		out = append(out, *in.ToModel())
	}
	return out, nil
}

func SeedBranchesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file cabang:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Gagal membaca file JSON: %v", err)
		return
	}
	rows, err := DecodeBranches(file)
	if err != nil {
		log.Printf("❌ Gagal decode JSON: %v", err)
		return
	}

	if err := repository.NewBranchRepository(db).UpsertByAddress(context.Background(), rows); err != nil {
		log.Printf("❌ Gagal upsert cabang: %v", err)
		return
	}
	log.Printf("✅ %d cabang di-seed", len(rows))
}
