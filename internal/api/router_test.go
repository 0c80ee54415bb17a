package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/archstudio/engine/internal/api/handlers"
	"github.com/archstudio/engine/internal/api/types"
	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/repository"
	"github.com/archstudio/engine/internal/services"
	"github.com/archstudio/engine/pkg/logger"
)

var testSecret = []byte("router-test-secret")

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return NewRouter(Dependencies{
		HMACSecret:        testSecret,
		ProjectsHandler:   handlers.NewProjectsHandler(services.NewProjectService(repo)),
		FlowsHandler:      handlers.NewFlowsHandler(services.NewFlowService(repo)),
		DataModelsHandler: handlers.NewDataModelsHandler(services.NewModelService(repo)),
		ComponentsHandler: handlers.NewComponentsHandler(services.NewModelService(repo)),
	})
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, router http.Handler, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *types.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.True(t, env.Success, "expected success envelope, got error: %+v", env.Error)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *types.APIError {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Error   *types.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "", http.MethodGet, "/api/v1/projects/", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, "not-a-token", http.MethodGet, "/api/v1/projects/", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "", http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestProjectLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{
		Name:        "payments",
		Description: "payment platform model",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var project models.Project
	decodeData(t, rr, &project)
	require.NotEqual(t, uuid.Nil, project.ID)
	require.NotEqual(t, uuid.Nil, project.RootSystemID)
	require.Len(t, project.Systems, 1)
	require.True(t, project.Systems[project.RootSystemID].IsRoot)

	rr = doJSON(t, router, token, http.MethodGet, "/api/v1/projects/"+project.ID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, token, http.MethodPut, "/api/v1/projects/"+project.ID.String()+"/", types.ProjectRequest{
		Name: "payments-v2",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated models.Project
	decodeData(t, rr, &updated)
	require.Equal(t, "payments-v2", updated.Name)

	var list []*models.Project
	rr = doJSON(t, router, token, http.MethodGet, "/api/v1/projects/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &list)
	require.Len(t, list, 1)

	rr = doJSON(t, router, token, http.MethodDelete, "/api/v1/projects/"+project.ID.String()+"/", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, token, http.MethodGet, "/api/v1/projects/"+project.ID.String()+"/", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectOwnershipEnforced(t *testing.T) {
	router := newTestRouter(t)
	owner := signToken(t, uuid.New())
	stranger := signToken(t, uuid.New())

	rr := doJSON(t, router, owner, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "private"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var project models.Project
	decodeData(t, rr, &project)

	rr = doJSON(t, router, stranger, http.MethodGet, "/api/v1/projects/"+project.ID.String()+"/", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	apiErr := decodeError(t, rr)
	require.Equal(t, "unauthorized", apiErr.Code)
}

func TestSystemRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	var project models.Project
	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "shop"})
	require.Equal(t, http.StatusCreated, rr.Code)
	decodeData(t, rr, &project)
	base := "/api/v1/projects/" + project.ID.String()

	rr = doJSON(t, router, token, http.MethodPost, base+"/systems/", types.SystemCreateRequest{
		ParentID: project.RootSystemID,
		Name:     "checkout",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var checkout models.System
	decodeData(t, rr, &checkout)

	rr = doJSON(t, router, token, http.MethodPut, base+"/systems/"+checkout.ID.String(), types.SystemUpdateRequest{
		Name:        "checkout",
		Description: "order placement",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var systems map[string]*models.System
	rr = doJSON(t, router, token, http.MethodGet, base+"/systems/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &systems)
	require.Len(t, systems, 2)

	// root cannot be removed
	rr = doJSON(t, router, token, http.MethodDelete, base+"/systems/"+project.RootSystemID.String(), nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, token, http.MethodDelete, base+"/systems/"+checkout.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestFlowRoutesAndValidation(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	var project models.Project
	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "shop"})
	decodeData(t, rr, &project)
	base := "/api/v1/projects/" + project.ID.String()

	rr = doJSON(t, router, token, http.MethodPost, base+"/systems/", types.SystemCreateRequest{
		ParentID: project.RootSystemID,
		Name:     "checkout",
	})
	var checkout models.System
	decodeData(t, rr, &checkout)

	good := types.FlowRequest{
		Name:           "place order",
		SystemScopeIDs: []uuid.UUID{project.RootSystemID, checkout.ID},
		Steps: []types.StepRequest{
			{Name: "submit", SourceSystemID: project.RootSystemID, TargetSystemID: checkout.ID},
		},
	}
	rr = doJSON(t, router, token, http.MethodPost, base+"/flows/", good)
	require.Equal(t, http.StatusCreated, rr.Code)
	var flow models.Flow
	decodeData(t, rr, &flow)
	require.NotEqual(t, uuid.Nil, flow.Steps[0].ID, "step id should be minted on save")

	// saving an invalid flow is rejected with collected details
	bad := good
	bad.Steps = []types.StepRequest{{Name: "submit"}}
	rr = doJSON(t, router, token, http.MethodPost, base+"/flows/", bad)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	require.NotEmpty(t, apiErr.Details)

	// the advisory route accepts the same draft and reports instead of rejecting
	rr = doJSON(t, router, token, http.MethodPost, base+"/flows/validate", bad)
	require.Equal(t, http.StatusOK, rr.Code)
	var result struct {
		IsValid    bool                `json:"is_valid"`
		StepErrors map[string][]string `json:"step_errors"`
	}
	decodeData(t, rr, &result)
	require.False(t, result.IsValid)
	require.NotEmpty(t, result.StepErrors)

	rr = doJSON(t, router, token, http.MethodDelete, base+"/flows/"+flow.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDataModelAndConstraintRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	var project models.Project
	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "shop"})
	decodeData(t, rr, &project)
	base := "/api/v1/projects/" + project.ID.String() + "/data-models"

	rr = doJSON(t, router, token, http.MethodPost, base+"/", types.DataModelRequest{Name: "Order"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var dm models.DataModel
	decodeData(t, rr, &dm)

	rr = doJSON(t, router, token, http.MethodPost, base+"/"+dm.ID.String()+"/attributes", types.AttributeRequest{
		Name: "sku",
		Type: models.TypeString,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var attr models.Attribute
	decodeData(t, rr, &attr)
	require.NotEmpty(t, attr.LocalID)

	attrBase := base + "/" + dm.ID.String() + "/attributes/" + attr.LocalID
	rr = doJSON(t, router, token, http.MethodPost, attrBase+"/constraints", types.ConstraintRequest{
		Kind:  models.KindRegex,
		Value: "^[a-z0-9]{3,8}$",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	// min is not legal on a string attribute
	rr = doJSON(t, router, token, http.MethodPost, attrBase+"/constraints", types.ConstraintRequest{
		Kind:  models.KindMin,
		Value: "1",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, token, http.MethodDelete, attrBase+"/constraints/regex", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, token, http.MethodDelete, attrBase, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestEnumConstraintFromRawText(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	var project models.Project
	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "shop"})
	decodeData(t, rr, &project)
	base := "/api/v1/projects/" + project.ID.String() + "/data-models"

	var dm models.DataModel
	rr = doJSON(t, router, token, http.MethodPost, base+"/", types.DataModelRequest{Name: "Order"})
	decodeData(t, rr, &dm)

	var attr models.Attribute
	rr = doJSON(t, router, token, http.MethodPost, base+"/"+dm.ID.String()+"/attributes", types.AttributeRequest{
		Name: "status",
		Type: models.TypeString,
	})
	decodeData(t, rr, &attr)

	rr = doJSON(t, router, token, http.MethodPost,
		base+"/"+dm.ID.String()+"/attributes/"+attr.LocalID+"/constraints",
		types.ConstraintRequest{Kind: models.KindEnum, Raw: "open, paid,\nshipped, open"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var withEnum models.Attribute
	decodeData(t, rr, &withEnum)
	require.Len(t, withEnum.Constraints, 1)
	require.Equal(t, []string{"open", "paid", "shipped"}, withEnum.Constraints[0].Values)
}

func TestComponentAndEntryPointRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	var project models.Project
	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/projects/", types.ProjectRequest{Name: "shop"})
	decodeData(t, rr, &project)
	base := "/api/v1/projects/" + project.ID.String() + "/components"

	rr = doJSON(t, router, token, http.MethodPost, base+"/", types.ComponentRequest{Name: "orders-api"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var comp models.Component
	decodeData(t, rr, &comp)

	rr = doJSON(t, router, token, http.MethodPost, base+"/"+comp.ID.String()+"/entry-points", types.EntryPointRequest{
		Name: "create order",
		Request: []*models.Attribute{
			{Name: "sku", Type: models.TypeString},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var ep models.EntryPoint
	decodeData(t, rr, &ep)
	require.NotEmpty(t, ep.Request[0].LocalID)

	// an illegal constraint in the payload tree is rejected up front
	rr = doJSON(t, router, token, http.MethodPost, base+"/"+comp.ID.String()+"/entry-points", types.EntryPointRequest{
		Name: "broken",
		Request: []*models.Attribute{
			{Name: "qty", Type: models.TypeBoolean, Constraints: []models.Constraint{
				{Kind: models.KindMin, Value: "1"},
			}},
		},
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	require.NotEmpty(t, apiErr.Details)

	rr = doJSON(t, router, token, http.MethodDelete, base+"/"+comp.ID.String()+"/entry-points/"+ep.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, token, http.MethodDelete, base+"/"+comp.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPatternRoute(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, uuid.New())

	rr := doJSON(t, router, token, http.MethodPost, "/api/v1/pattern", types.PatternRequest{
		AlphaLowercase: true,
		Numeric:        true,
		LengthMode:     "range",
		LengthMin:      "3",
		LengthMax:      "8",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]string
	decodeData(t, rr, &out)
	require.Equal(t, "^[a-z0-9]{3,8}$", out["pattern"])

	rr = doJSON(t, router, token, http.MethodPost, "/api/v1/pattern", types.PatternRequest{
		AlphaLowercase: true,
		LengthMode:     "exact",
		LengthExact:    "-2",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
