package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"canvassers_backend/internals/configs"
	attendanceModel "canvassers_backend/internals/features/attendance/model"
	branchModel "canvassers_backend/internals/features/branches/model"
	salesModel "canvassers_backend/internals/features/sales/model"
	authModel "canvassers_backend/internals/features/users/auth/model"
	userModel "canvassers_backend/internals/features/users/user/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Satu check-in terbuka per user, juga saat beberapa instance berjalan.
const openCheckInIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uq_check_ins_open_per_user
	ON check_ins (user_id) WHERE check_out_time IS NULL`

func dsn() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=canvassers&options=-c statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		configs.GetEnv("DB_PORT", "5432"),
		os.Getenv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)
}

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate membuat/menyesuaikan tabel lalu index yang tidak bisa dideklarasikan lewat tag.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&branchModel.BranchModel{},
		&attendanceModel.CheckInModel{},
		&attendanceModel.FeedbackModel{},
		&salesModel.SaleModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := db.Exec(openCheckInIndex).Error; err != nil {
		return fmt.Errorf("open check-in index: %w", err)
	}
	log.Println("✅ Migration done.")
	return nil
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// query paling sering: daftar cabang untuk geofence
		DB.Exec("SELECT 1 FROM branch_locations LIMIT 1")
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
