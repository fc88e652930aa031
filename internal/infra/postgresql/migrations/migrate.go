package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/sgmi/production-backend/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		createUsersTable(),
		createProductsTable(),
		createProductionPlansTable(),
		createBatchesTable(),
		createProductionEntriesTable(),
	})

	return m.Migrate()
}

func createUsersTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_users",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.UserModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.UserModel{})
		},
	}
}

func createProductsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_products",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.ProductModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ProductModel{})
		},
	}
}

func createProductionPlansTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_production_plans",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.ProductionPlanModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_plans_date_status ON production_plans (planned_date, status)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ProductionPlanModel{})
		},
	}
}

func createBatchesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000004_create_batches",
		Migrate: func(tx *gorm.DB) error {
			// AutoMigrate creates the unique (production_plan_id,
			// batch_number) index declared on the model.
			if err := tx.AutoMigrate(&repository.BatchModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_batches_in_progress ON batches (start_time) WHERE status = 'IN_PROGRESS'`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.BatchModel{})
		},
	}
}

func createProductionEntriesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000005_create_production_entries",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.ProductionEntryModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ProductionEntryModel{})
		},
	}
}
