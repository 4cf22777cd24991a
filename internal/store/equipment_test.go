package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenatrack-backend/internal/model"
	"maintenatrack-backend/internal/validate"
)

func TestQuickAddEquipment_GeneratesMonotonicTags(t *testing.T) {
	s, gormDB := newTestStore(t)

	first, err := s.QuickAddEquipment(context.Background(), "Press 1", "b1")
	require.NoError(t, err)
	second, err := s.QuickAddEquipment(context.Background(), "Press 2", "b1")
	require.NoError(t, err)

	var rows []model.Equipment
	require.NoError(t, gormDB.Find(&rows, []int64{first.ID, second.ID}).Error)
	require.Len(t, rows, 2)
	tags := map[int64]string{}
	for _, r := range rows {
		require.NotNil(t, r.AssetTag)
		tags[r.ID] = *r.AssetTag
	}
	assert.Equal(t, "AUTO-1", tags[first.ID])
	assert.Equal(t, "AUTO-2", tags[second.ID])

	// An existing high-numbered tag moves the sequence past it.
	high := "AUTO-41"
	require.NoError(t, gormDB.Create(&model.Equipment{
		Name: "Old press", Zone: "Z9", AssetTag: &high, Status: model.StatusActive,
	}).Error)

	third, err := s.QuickAddEquipment(context.Background(), "Press 3", "b1")
	require.NoError(t, err)
	var row model.Equipment
	require.NoError(t, gormDB.First(&row, third.ID).Error)
	require.NotNil(t, row.AssetTag)
	assert.Equal(t, "AUTO-42", *row.AssetTag)
}

func TestQuickAddEquipment_NormalizesZoneAndDefaults(t *testing.T) {
	s, gormDB := newTestStore(t)

	created, err := s.QuickAddEquipment(context.Background(), "  Press 3  ", "b1!")
	require.NoError(t, err)
	assert.Equal(t, "Press 3", created.Name)
	assert.Equal(t, "B1", created.Zone)

	var row model.Equipment
	require.NoError(t, gormDB.First(&row, created.ID).Error)
	assert.Equal(t, model.StatusActive, row.Status)
}

func TestQuickAddEquipment_ValidationFailures(t *testing.T) {
	s, _ := newTestStore(t)

	var fieldErr *validate.FieldError

	_, err := s.QuickAddEquipment(context.Background(), "", "b1")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)

	_, err = s.QuickAddEquipment(context.Background(), "Press 3", "!!!")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "zone", fieldErr.Field)

	_, err = s.QuickAddEquipment(context.Background(), "Press 3", "ABCDEFGHIJK")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "zone", fieldErr.Field)
}

func TestQuickAddEquipment_DuplicateReturnsExistingRow(t *testing.T) {
	s, gormDB := newTestStore(t)

	first, err := s.QuickAddEquipment(context.Background(), "Press 3", "b1")
	require.NoError(t, err)

	// Identical request: no second row, the existing one comes back.
	second, err := s.QuickAddEquipment(context.Background(), "Press 3", "B1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, gormDB.Model(&model.Equipment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteEquipment_OwnershipRules(t *testing.T) {
	s, gormDB := newTestStore(t)
	alice := createTestUser(t, gormDB, "alice")
	bob := createTestUser(t, gormDB, "bob")
	equipment := createTestEquipment(t, gormDB, "Press 3", "B1")

	// No logs by the requester yet.
	assert.ErrorIs(t, s.DeleteEquipment(context.Background(), equipment.ID, alice.ID), ErrNotOwner)

	_, _, err := s.CreateLog(context.Background(), alice.ID, LogInput{
		EquipmentID: &equipment.ID,
		AlarmCode:   "ALM-1",
		Difficulty:  model.DifficultyEasy,
	}, nil)
	require.NoError(t, err)

	// Another user has logged against it: blocked.
	bobLog, _, err := s.CreateLog(context.Background(), bob.ID, LogInput{
		EquipmentID: &equipment.ID,
		AlarmCode:   "ALM-2",
		Difficulty:  model.DifficultyEasy,
	}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteEquipment(context.Background(), equipment.ID, alice.ID), ErrEquipmentInUse)

	require.NoError(t, s.DeleteLog(context.Background(), bobLog.ID, bob.ID))

	// Now every referencing log belongs to alice; the delete clears the
	// references and removes the row, keeping the logs.
	require.NoError(t, s.DeleteEquipment(context.Background(), equipment.ID, alice.ID))

	var equipmentCount int64
	require.NoError(t, gormDB.Model(&model.Equipment{}).Count(&equipmentCount).Error)
	assert.Zero(t, equipmentCount)

	var logs []model.MaintenanceLog
	require.NoError(t, gormDB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].EquipmentID)

	assert.ErrorIs(t, s.DeleteEquipment(context.Background(), equipment.ID, alice.ID), ErrNotFound)
}

func TestListEquipment_OrderedByZoneThenName(t *testing.T) {
	s, gormDB := newTestStore(t)
	createTestEquipment(t, gormDB, "Press B", "Z2")
	createTestEquipment(t, gormDB, "Press A", "Z2")
	createTestEquipment(t, gormDB, "Press C", "A1")

	equipment, err := s.ListEquipment(context.Background())
	require.NoError(t, err)
	require.Len(t, equipment, 3)
	assert.Equal(t, "Press C", equipment[0].Name)
	assert.Equal(t, "Press A", equipment[1].Name)
	assert.Equal(t, "Press B", equipment[2].Name)
}
