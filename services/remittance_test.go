package services

import (
	"testing"
	"time"

	"cobranca-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRemittance(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)

	t1 := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))
	t2 := seedOpenTitle(t, db, contract, "DOC-2", "NN-2", 50.50, date(2024, time.February, 10))

	rem, err := BuildRemittance(db, []uint{t1.Id, t2.Id})
	require.NoError(t, err)
	assert.Equal(t, 2, rem.TotalTitles)
	assert.Equal(t, 150.50, rem.TotalValue)
	assert.Equal(t, 1, rem.Sequence)
	assert.False(t, rem.GeneratedAt.IsZero())
	require.Len(t, rem.Items, 2)
	assert.Equal(t, 100.0, rem.Items[0].Value)
	assert.NotEmpty(t, rem.Items[0].Snapshot)

	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, t1.Id).Error)
	assert.Equal(t, models.TitleInRemittance, reloaded.Status)

	// sequence advances per batch
	t3 := seedOpenTitle(t, db, contract, "DOC-3", "NN-3", 10, date(2024, time.March, 10))
	rem2, err := BuildRemittance(db, []uint{t3.Id})
	require.NoError(t, err)
	assert.Equal(t, 2, rem2.Sequence)
}

func TestBuildRemittanceIsNotRepeatable(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)
	title := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))

	_, err := BuildRemittance(db, []uint{title.Id})
	require.NoError(t, err)

	// already in_remittance: the second batch must fail, not double-include
	_, err = BuildRemittance(db, []uint{title.Id})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuildRemittanceIsAtomic(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)

	good := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))
	bad := seedOpenTitle(t, db, contract, "DOC-2", "NN-2", 50, date(2024, time.February, 10))
	_, err := CancelTitle(db, bad.Id)
	require.NoError(t, err)

	_, err = BuildRemittance(db, []uint{good.Id, bad.Id})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// the good title must be untouched by the aborted batch
	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, good.Id).Error)
	assert.Equal(t, models.TitleOpen, reloaded.Status)

	var remittances int64
	require.NoError(t, db.Model(&models.Remittance{}).Count(&remittances).Error)
	assert.Zero(t, remittances)
}

func TestBuildRemittanceValidation(t *testing.T) {
	db := newTestDB(t)

	_, err := BuildRemittance(db, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = BuildRemittance(db, []uint{12345})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyReturnFileRoundTrip(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)
	title := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))

	_, err := BuildRemittance(db, []uint{title.Id})
	require.NoError(t, err)

	occurredAt := date(2024, time.February, 9)
	rf, err := ApplyReturnFile(db, "RET0001.RET", []ReturnItemInput{
		{OurNumber: "NN-1", Status: models.ReturnPaid, Value: 100, OccurredAt: occurredAt},
	})
	require.NoError(t, err)
	require.Len(t, rf.Items, 1)
	assert.False(t, rf.Items[0].Unmatched)
	require.NotNil(t, rf.Items[0].TitleId)

	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, title.Id).Error)
	assert.Equal(t, models.TitlePaid, reloaded.Status)
	require.NotNil(t, reloaded.PaidDate)
	assert.Equal(t, occurredAt, reloaded.PaidDate.UTC())
}

func TestApplyReturnFileRejectionReopensTitle(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)
	title := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))

	_, err := BuildRemittance(db, []uint{title.Id})
	require.NoError(t, err)

	_, err = ApplyReturnFile(db, "RET0001.RET", []ReturnItemInput{
		{OurNumber: "NN-1", Status: models.ReturnRejected, OccurredAt: date(2024, time.February, 9)},
	})
	require.NoError(t, err)

	// back to open so it can be re-sent
	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, title.Id).Error)
	assert.Equal(t, models.TitleOpen, reloaded.Status)

	_, err = BuildRemittance(db, []uint{title.Id})
	assert.NoError(t, err)
}

func TestApplyReturnFileKeepsUnmatchedLines(t *testing.T) {
	db := newTestDB(t)

	rf, err := ApplyReturnFile(db, "RET0001.RET", []ReturnItemInput{
		{OurNumber: "NN-GHOST", Status: models.ReturnPaid, Value: 10, OccurredAt: date(2024, time.February, 9)},
	})
	require.NoError(t, err)
	require.Len(t, rf.Items, 1)
	assert.True(t, rf.Items[0].Unmatched)
	assert.Nil(t, rf.Items[0].TitleId)
	assert.Equal(t, "NN-GHOST", rf.Items[0].OurNumber)
}

func TestApplyReturnFileIsAtomic(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	plan := seedPlan(t, db, 2, 1)
	contract := seedContract(t, db, client, plan)
	title := seedOpenTitle(t, db, contract, "DOC-1", "NN-1", 100, date(2024, time.February, 10))

	_, err := BuildRemittance(db, []uint{title.Id})
	require.NoError(t, err)

	// second line carries a bogus status: whole file must be rejected
	_, err = ApplyReturnFile(db, "RET0001.RET", []ReturnItemInput{
		{OurNumber: "NN-1", Status: models.ReturnPaid, Value: 100, OccurredAt: date(2024, time.February, 9)},
		{OurNumber: "NN-1", Status: "garbled", OccurredAt: date(2024, time.February, 9)},
	})
	assert.ErrorIs(t, err, ErrValidation)

	var reloaded models.Title
	require.NoError(t, db.First(&reloaded, title.Id).Error)
	assert.Equal(t, models.TitleInRemittance, reloaded.Status)

	var files int64
	require.NoError(t, db.Model(&models.ReturnFile{}).Count(&files).Error)
	assert.Zero(t, files)
}
