package services

import (
	"testing"
	"time"

	"cobranca-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTitleSnapshotsFineAndInterest(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2.0, 1.0)
	contract := seedContract(t, db, client, plan)

	first := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 99.90, date(2024, time.February, 10))
	assert.Equal(t, 2.0, first.FinePercent)
	assert.Equal(t, 1.0, first.InterestPercent)

	// editing the plan must not reach back into the issued title
	require.NoError(t, db.Model(plan).Updates(map[string]any{
		"fine_percent":     10.0,
		"interest_percent": 5.0,
	}).Error)

	second := seedOpenTitle(t, db, contract, "DOC-2", "NN-2", 99.90, date(2024, time.March, 10))
	assert.Equal(t, 10.0, second.FinePercent)

	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, first.Id).Error)
	assert.Equal(t, 2.0, reloaded.FinePercent)
	assert.Equal(t, 1.0, reloaded.InterestPercent)
}

func TestCreateTitleUsesContractOverrides(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2.0, 1.0)

	fine, interest := 4.5, 2.5
	contract := models.Contract{
		ClientId:        client.Id,
		PlanId:          plan.Id,
		FinePercent:     &fine,
		InterestPercent: &interest,
		Active:          true,
	}
	require.NoError(t, db.Create(&contract).Error)

	title := seedOpenTitle(t, db, &contract, "DOC-1", "NN-1", 50, date(2024, time.February, 10))
	assert.Equal(t, 4.5, title.FinePercent)
	assert.Equal(t, 2.5, title.InterestPercent)
}

func TestCreateTitleResolvesDueDateFromConfig(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)

	_, err := CreateDueDateConfig(db, DueDateConfigInput{ClientId: &client.Id, DueDay: 10})
	require.NoError(t, err)

	title, err := CreateTitle(db, TitleInput{
		ContractId:     contract.Id,
		DocumentNumber: "DOC-1",
		OurNumber:      "NN-1",
		Amount:         99.90,
		IssueDate:      date(2024, time.January, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 10), title.DueDate)
	assert.Equal(t, models.TitleOpen, title.Status)
}

func TestCreateTitleMissingContract(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateTitle(db, TitleInput{
		ContractId:     42,
		DocumentNumber: "DOC-1",
		OurNumber:      "NN-1",
		Amount:         10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTitleDuplicateNumbers(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)

	seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 10, date(2024, time.February, 10))

	_, err := CreateTitle(db, TitleInput{
		ContractId:     contract.Id,
		DocumentNumber: "DOC-1",
		OurNumber:      "NN-2",
		Amount:         10,
		DueDate:        date(2024, time.February, 10),
	})
	assert.ErrorIs(t, err, ErrDuplicateDocumentNumber)

	_, err = CreateTitle(db, TitleInput{
		ContractId:     contract.Id,
		DocumentNumber: "DOC-2",
		OurNumber:      "NN-1",
		Amount:         10,
		DueDate:        date(2024, time.February, 10),
	})
	assert.ErrorIs(t, err, ErrDuplicateOurNumber)
}

func TestRegisterPaymentHappyPath(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)
	title := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 99.90, date(2024, time.February, 10))

	paidAt := date(2024, time.February, 8)
	paid, err := RegisterPayment(db, title.Id, paidAt, 0)
	require.NoError(t, err)
	assert.Equal(t, models.TitlePaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, paidAt, *paid.PaidDate)
	require.NotNil(t, paid.PaidValue)
	assert.Equal(t, 99.90, *paid.PaidValue) // defaults to the title amount

	// paid is terminal
	_, err = RegisterPayment(db, title.Id, paidAt, 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelTransitions(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)

	open := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 10, date(2024, time.February, 10))
	cancelled, err := CancelTitle(db, open.Id)
	require.NoError(t, err)
	assert.Equal(t, models.TitleCancelled, cancelled.Status)

	// cancelled is terminal: no payment, no second cancel
	_, err = RegisterPayment(db, open.Id, date(2024, time.February, 8), 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = CancelTitle(db, open.Id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// a paid title cannot be cancelled
	paid := seedOpenTitle(t, db, contract, "DOC-2", "NN-2", 10, date(2024, time.February, 10))
	_, err = RegisterPayment(db, paid.Id, date(2024, time.February, 8), 0)
	require.NoError(t, err)
	_, err = CancelTitle(db, paid.Id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEffectiveStatusDerivesOverdue(t *testing.T) {
	today := date(2024, time.March, 1)

	open := models.Title{Status: models.TitleOpen, DueDate: date(2024, time.February, 10)}
	assert.Equal(t, models.TitleOverdue, open.EffectiveStatus(today))
	assert.True(t, open.IsOverdue(today))

	// due today is not overdue yet
	dueToday := models.Title{Status: models.TitleOpen, DueDate: today}
	assert.Equal(t, models.TitleOpen, dueToday.EffectiveStatus(today))

	// only open titles can be overdue
	paid := models.Title{Status: models.TitlePaid, DueDate: date(2024, time.February, 10)}
	assert.Equal(t, models.TitlePaid, paid.EffectiveStatus(today))
	inRem := models.Title{Status: models.TitleInRemittance, DueDate: date(2024, time.February, 10)}
	assert.Equal(t, models.TitleInRemittance, inRem.EffectiveStatus(today))
}
