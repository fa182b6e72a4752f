package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/shape"
)

// mockTaskService implements primary.TaskService for testing
type mockTaskService struct {
	tasks      []models.Task
	lastCreate models.TaskCreate
	lastUpdate models.TaskUpdate
	lastList   primary.TaskFilters
	statusErr  error
}

func (m *mockTaskService) CreateTask(ctx context.Context, payload models.TaskCreate) (models.Task, error) {
	m.lastCreate = payload
	return testTask("TASK-001", payload.Data.ShipmentID.Get(), payload.Data.Title.Get(), "ready", payload.Data.Priority.Get()), nil
}

func (m *mockTaskService) GetTask(ctx context.Context, id string) (models.Task, error) {
	return testTask(id, "SHIP-001", "Group rows", "in_progress", ptr(2)), nil
}

func (m *mockTaskService) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]models.Task, error) {
	m.lastList = filters
	return m.tasks, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id string, patch models.TaskUpdate) (models.Task, error) {
	m.lastUpdate = patch
	return testTask(id, "SHIP-001", "Updated", "ready", nil), nil
}

func (m *mockTaskService) SetTaskStatus(ctx context.Context, id, status string) error {
	return m.statusErr
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id string) error { return nil }

func TestTaskAdapter_Create(t *testing.T) {
	var buf bytes.Buffer
	service := &mockTaskService{}
	adapter := NewTaskAdapter(service, &buf, TextOutput)

	require.NoError(t, adapter.Create(context.Background(), "SHIP-001", "Group rows", "", ptr(1)))

	assert.Equal(t, "✓ Created task TASK-001: Group rows\n  Shipment: SHIP-001\n", buf.String())
	assert.Nil(t, service.lastCreate.Data.Description.Get())
	assert.Equal(t, 1, *service.lastCreate.Data.Priority.Get())
}

func TestTaskAdapter_List(t *testing.T) {
	var buf bytes.Buffer
	service := &mockTaskService{tasks: []models.Task{
		testTask("TASK-001", "SHIP-001", "Group rows", "ready", ptr(1)),
		testTask("TASK-002", "SHIP-001", "Close cursor", "blocked", nil),
	}}
	adapter := NewTaskAdapter(service, &buf, TextOutput)

	require.NoError(t, adapter.List(context.Background(), "SHIP-001", ""))

	assert.Equal(t, primary.TaskFilters{ShipmentID: "SHIP-001"}, service.lastList)
	assert.Contains(t, buf.String(), "TASK-001   SHIP-001   ready        P1  Group rows\n")
	assert.Contains(t, buf.String(), "TASK-002   SHIP-001   blocked      -   Close cursor\n")

	buf.Reset()
	require.NoError(t, NewTaskAdapter(&mockTaskService{tasks: []models.Task{}}, &buf, TextOutput).List(context.Background(), "", ""))
	assert.Equal(t, "No tasks found\n", buf.String())
}

func TestTaskAdapter_Show(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewTaskAdapter(&mockTaskService{}, &buf, TextOutput)

	task, err := adapter.Show(context.Background(), "TASK-007")
	require.NoError(t, err)
	assert.Equal(t, "TASK-007", task.ID.Get())

	out := buf.String()
	assert.Contains(t, out, "Task:     TASK-007\n")
	assert.Contains(t, out, "Priority: P2\n")
	assert.NotContains(t, out, "Description")
}

func TestTaskAdapter_UpdateFromJSON(t *testing.T) {
	var buf bytes.Buffer
	service := &mockTaskService{}
	adapter := NewTaskAdapter(service, &buf, TextOutput)

	require.NoError(t, adapter.UpdateFromJSON(context.Background(), "TASK-001", []byte(`{"priority": null}`)))
	assert.True(t, service.lastUpdate.Data.Priority.IsNull())
	assert.True(t, service.lastUpdate.Data.Title.Patch().IsAbsent())
	assert.Equal(t, "✓ Task TASK-001 updated\n", buf.String())

	err := adapter.UpdateFromJSON(context.Background(), "TASK-001", []byte(`{"id": "TASK-009"}`))
	assert.ErrorIs(t, err, shape.ErrMalformedPayload)
}
