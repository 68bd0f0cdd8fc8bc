package services

import (
	"fmt"
	"testing"
	"time"

	"cobranca-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a per-test in-memory database migrated with the full
// schema. cache=shared keeps gorm's pooled connections on the same DB; the
// test name keeps databases isolated between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Client{},
		&models.Plan{},
		&models.Contract{},
		&models.DueDateConfig{},
		&models.Title{},
		&models.Remittance{},
		&models.RemittanceItem{},
		&models.ReturnFile{},
		&models.ReturnItem{},
		&models.PaymentPromise{},
	))
	return db
}

func seedClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	client := models.Client{
		Name:     "Maria Souza",
		Document: "12345678901",
		Email:    fmt.Sprintf("maria+%s@example.com", t.Name()),
		Address:  "Rua das Flores 10",
		City:     "Curitiba",
		State:    "PR",
		Zip:      "80000-000",
		Active:   true,
	}
	require.NoError(t, db.Create(&client).Error)
	return &client
}

func seedPlan(t *testing.T, db *gorm.DB, fine, interest float64) *models.Plan {
	t.Helper()
	plan := models.Plan{
		Name:            fmt.Sprintf("Fibra 300 %s", t.Name()),
		MonthlyPrice:    99.90,
		DownloadMbps:    300,
		UploadMbps:      150,
		FinePercent:     fine,
		InterestPercent: interest,
		Active:          true,
	}
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}

func seedContract(t *testing.T, db *gorm.DB, client *models.Client, plan *models.Plan) *models.Contract {
	t.Helper()
	contract := models.Contract{
		ClientId: client.Id,
		PlanId:   plan.Id,
		Active:   true,
	}
	require.NoError(t, db.Create(&contract).Error)
	return &contract
}

func seedOpenTitle(t *testing.T, db *gorm.DB, contract *models.Contract, doc, our string, amount float64, due time.Time) *models.Title {
	t.Helper()
	title, err := CreateTitle(db, TitleInput{
		ContractId:     contract.Id,
		DocumentNumber: doc,
		OurNumber:      our,
		Amount:         amount,
		IssueDate:      due.AddDate(0, -1, 0),
		DueDate:        due,
	})
	require.NoError(t, err)
	return title
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint { return &v }
