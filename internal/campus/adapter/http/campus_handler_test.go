package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	campushttp "campus-facilities/internal/campus/adapter/http"
	"campus-facilities/internal/campus/domain/model"
	"campus-facilities/internal/campus/usecase"
	apperrors "campus-facilities/internal/shared/errors"
	"campus-facilities/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory record store implementing the three
// repository interfaces with the same contract as the MongoDB adapter:
// store-assigned identifiers written back into the record, merge-patch
// updates that overwrite data fields (zero values included) while
// preserving store-managed createdAt, idempotent deletes and the
// building-room cascade.
type fakeStore struct {
	nextID    int
	buildings []*model.Building
	rooms     []*model.Room
	infras    []*model.Infrastructure
	failNext  error
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

type fakeBuildingRepo struct{ s *fakeStore }

func (r *fakeBuildingRepo) Add(_ context.Context, b *model.Building) (*model.Building, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	b.SetID(r.s.id())
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	r.s.buildings = append(r.s.buildings, b)
	return b, nil
}

func (r *fakeBuildingRepo) GetAll(context.Context) ([]*model.Building, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	return append([]*model.Building{}, r.s.buildings...), nil
}

func (r *fakeBuildingRepo) Update(_ context.Context, id string, b *model.Building) (*model.Building, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	for i, existing := range r.s.buildings {
		if existing.ID == id {
			b.SetID(id)
			b.CreatedAt = existing.CreatedAt
			b.UpdatedAt = time.Now().UTC()
			r.s.buildings[i] = b
			return b, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (r *fakeBuildingRepo) Delete(_ context.Context, id string) error {
	if err := r.s.takeErr(); err != nil {
		return err
	}
	kept := r.s.buildings[:0]
	for _, b := range r.s.buildings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	r.s.buildings = kept

	rooms := r.s.rooms[:0]
	for _, room := range r.s.rooms {
		if room.BuildingID != id {
			rooms = append(rooms, room)
		}
	}
	r.s.rooms = rooms
	return nil
}

type fakeRoomRepo struct{ s *fakeStore }

func (r *fakeRoomRepo) Add(_ context.Context, room *model.Room) (*model.Room, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	room.SetID(r.s.id())
	room.CreatedAt = time.Now().UTC()
	room.UpdatedAt = room.CreatedAt
	r.s.rooms = append(r.s.rooms, room)
	return room, nil
}

func (r *fakeRoomRepo) GetAll(context.Context) ([]*model.Room, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	zones := make(map[string]string)
	for _, b := range r.s.buildings {
		zones[b.ID] = b.Situation
	}
	out := append([]*model.Room{}, r.s.rooms...)
	for _, room := range out {
		room.Situation = model.ResolveZone(zones, room.BuildingID)
	}
	model.SortRoomsByZone(out)
	return out, nil
}

func (r *fakeRoomRepo) Update(_ context.Context, id string, room *model.Room) (*model.Room, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	for i, existing := range r.s.rooms {
		if existing.ID == id {
			room.SetID(id)
			room.CreatedAt = existing.CreatedAt
			room.UpdatedAt = time.Now().UTC()
			r.s.rooms[i] = room
			return room, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (r *fakeRoomRepo) Delete(_ context.Context, id string) error {
	if err := r.s.takeErr(); err != nil {
		return err
	}
	kept := r.s.rooms[:0]
	for _, room := range r.s.rooms {
		if room.ID != id {
			kept = append(kept, room)
		}
	}
	r.s.rooms = kept
	return nil
}

type fakeInfraRepo struct{ s *fakeStore }

func (r *fakeInfraRepo) Add(_ context.Context, infra *model.Infrastructure) (*model.Infrastructure, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	infra.SetID(r.s.id())
	infra.CreatedAt = time.Now().UTC()
	infra.UpdatedAt = infra.CreatedAt
	r.s.infras = append(r.s.infras, infra)
	return infra, nil
}

func (r *fakeInfraRepo) GetAll(context.Context) ([]*model.Infrastructure, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	return append([]*model.Infrastructure{}, r.s.infras...), nil
}

func (r *fakeInfraRepo) Update(_ context.Context, id string, infra *model.Infrastructure) (*model.Infrastructure, error) {
	if err := r.s.takeErr(); err != nil {
		return nil, err
	}
	for i, existing := range r.s.infras {
		if existing.ID == id {
			infra.SetID(id)
			infra.CreatedAt = existing.CreatedAt
			infra.UpdatedAt = time.Now().UTC()
			r.s.infras[i] = infra
			return infra, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (r *fakeInfraRepo) Delete(_ context.Context, id string) error {
	if err := r.s.takeErr(); err != nil {
		return err
	}
	kept := r.s.infras[:0]
	for _, infra := range r.s.infras {
		if infra.ID != id {
			kept = append(kept, infra)
		}
	}
	r.s.infras = kept
	return nil
}

type fakeBlobStore struct{}

func (fakeBlobStore) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	return "https://storage/view/" + filename, nil
}

func newTestApp(t *testing.T, store *fakeStore, load bool) (*fiber.App, *usecase.CampusProvider) {
	t.Helper()

	log := logger.NewLogger()
	provider := usecase.NewCampusProvider(
		&fakeBuildingRepo{s: store},
		&fakeRoomRepo{s: store},
		&fakeInfraRepo{s: store},
		log,
	)
	if load {
		provider.Load(context.Background())
	}

	handler := campushttp.NewCampusHandler(provider, usecase.NewUploadService(fakeBlobStore{}, log), log)
	app := fiber.New()
	handler.RegisterRoutes(app.Group("/api/v1"))
	return app, provider
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListBuildings_BeforeLoadAnswers503(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, false)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/buildings", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCreateAndListBuildings(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"name":      "Bâtiment A",
		"latitude":  3.86,
		"longitude": 11.52,
		"situation": model.ZoneNorthCampus,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[model.Building](t, resp)
	assert.NotEmpty(t, created.ID, "identifier assigned by the store is returned")

	listResp := doJSON(t, app, http.MethodGet, "/api/v1/buildings", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	buildings := decode[[]model.Building](t, listResp)
	require.Len(t, buildings, 1)
	assert.Equal(t, created.ID, buildings[0].ID)
	assert.Equal(t, "Bâtiment A", buildings[0].Name)
}

func TestCreateBuilding_MissingNameRejected(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"latitude":  3.86,
		"longitude": 11.52,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateBuilding_InvalidZoneRejected(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"name":      "A",
		"latitude":  3.86,
		"longitude": 11.52,
		"situation": "Campus est",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateBuilding_UnknownIDAnswers404(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	resp := doJSON(t, app, http.MethodPut, "/api/v1/buildings/missing", map[string]interface{}{
		"name":      "A",
		"latitude":  3.86,
		"longitude": 11.52,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteBuilding_CascadesRooms(t *testing.T) {
	store := &fakeStore{}
	app, _ := newTestApp(t, store, true)

	created := decode[model.Building](t, doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"name":      "A",
		"latitude":  3.86,
		"longitude": 11.52,
		"situation": model.ZoneNorthCampus,
	}))

	roomResp := doJSON(t, app, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
		"name":       "101",
		"capacity":   40,
		"buildingId": created.ID,
	})
	require.Equal(t, http.StatusCreated, roomResp.StatusCode)

	delResp := doJSON(t, app, http.MethodDelete, "/api/v1/buildings/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	buildings := decode[[]model.Building](t, doJSON(t, app, http.MethodGet, "/api/v1/buildings", nil))
	assert.Empty(t, buildings)

	rooms := decode[[]model.Room](t, doJSON(t, app, http.MethodGet, "/api/v1/rooms", nil))
	assert.Empty(t, rooms, "rooms referencing the building are gone too")
}

func TestCreateRoom_ZoneResolvedAndSorted(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	building := decode[model.Building](t, doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"name":      "A",
		"latitude":  3.86,
		"longitude": 11.52,
		"situation": model.ZoneNorthCampus,
	}))

	for _, name := range []string{"101", "002"} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
			"name":       name,
			"buildingId": building.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	rooms := decode[[]model.Room](t, doJSON(t, app, http.MethodGet, "/api/v1/rooms", nil))
	require.Len(t, rooms, 2)
	assert.Equal(t, "002", rooms[0].Name, "name order inside the zone")
	assert.Equal(t, "101", rooms[1].Name)
	assert.Equal(t, model.ZoneNorthCampus, rooms[0].Situation)
}

func TestDeleteRoom_UnknownIDIsNoOp(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	building := decode[model.Building](t, doJSON(t, app, http.MethodPost, "/api/v1/buildings", map[string]interface{}{
		"name":      "A",
		"latitude":  3.86,
		"longitude": 11.52,
		"situation": model.ZoneNorthCampus,
	}))
	for _, name := range []string{"002", "101"} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
			"name":       name,
			"buildingId": building.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	delResp := doJSON(t, app, http.MethodDelete, "/api/v1/rooms/ghost", nil)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode, "unknown identifier deletes are a no-op")

	rooms := decode[[]model.Room](t, doJSON(t, app, http.MethodGet, "/api/v1/rooms", nil))
	require.Len(t, rooms, 2, "unrelated records survive")
	assert.Equal(t, "002", rooms[0].Name)
	assert.Equal(t, "101", rooms[1].Name)
}

func TestUpdateRoom_ClearedFieldsClearInStoreAndMirror(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	created := decode[model.Room](t, doJSON(t, app, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
		"name":        "101",
		"capacity":    40,
		"description": "Salle de TP",
	}))
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	updated := decode[model.Room](t, doJSON(t, app, http.MethodPut, "/api/v1/rooms/"+created.ID, map[string]interface{}{
		"name": "101",
	}))
	assert.Zero(t, updated.Capacity, "omitted capacity clears, not keeps")
	assert.Empty(t, updated.Description)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "store-managed createdAt survives the patch")

	rooms := decode[[]model.Room](t, doJSON(t, app, http.MethodGet, "/api/v1/rooms", nil))
	require.Len(t, rooms, 1)
	assert.Zero(t, rooms[0].Capacity, "mirror and store agree on the cleared value")
	assert.Empty(t, rooms[0].Description)
}

func TestCreateRoom_NegativeCapacityRejected(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/rooms", map[string]interface{}{
		"name":     "101",
		"capacity": -3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFailedAddDoesNotMutateMirror(t *testing.T) {
	store := &fakeStore{}
	app, _ := newTestApp(t, store, true)

	store.failNext = fmt.Errorf("write rejected")
	resp := doJSON(t, app, http.MethodPost, "/api/v1/infrastructures", map[string]interface{}{
		"name":      "Stade",
		"latitude":  3.8,
		"longitude": 11.5,
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	infras := decode[[]model.Infrastructure](t, doJSON(t, app, http.MethodGet, "/api/v1/infrastructures", nil))
	assert.Empty(t, infras)
}

func TestInfrastructureLifecycle(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	created := decode[model.Infrastructure](t, doJSON(t, app, http.MethodPost, "/api/v1/infrastructures", map[string]interface{}{
		"name":      "Stade",
		"latitude":  3.8,
		"longitude": 11.5,
		"situation": model.ZoneSouthCampus,
	}))
	require.NotEmpty(t, created.ID)

	updResp := doJSON(t, app, http.MethodPut, "/api/v1/infrastructures/"+created.ID, map[string]interface{}{
		"name":      "Stade couvert",
		"latitude":  3.8,
		"longitude": 11.5,
	})
	require.Equal(t, http.StatusOK, updResp.StatusCode)

	delResp := doJSON(t, app, http.MethodDelete, "/api/v1/infrastructures/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	infras := decode[[]model.Infrastructure](t, doJSON(t, app, http.MethodGet, "/api/v1/infrastructures", nil))
	assert.Empty(t, infras)
}

func TestUploadImages_MultipartBatch(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="files"; filename="plan.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)

	part, err = writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="files"; filename="notes.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string][]map[string]string](t, resp)
	files := body["files"]
	require.Len(t, files, 2)

	assert.True(t, strings.HasSuffix(files[0]["url"], "plan.png"))
	assert.Empty(t, files[0]["error"])
	assert.Empty(t, files[1]["url"], "rejected file carries no URL")
	assert.NotEmpty(t, files[1]["error"])
}

func TestUploadImages_NoFiles(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{}, true)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
