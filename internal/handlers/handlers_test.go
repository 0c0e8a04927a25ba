package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/auth"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "handlers-test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tx, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	db.DB = tx

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return router.NewRouter()
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)

		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}

		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}

	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}

	return result
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var result []map[string]interface{}

	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}

	return result
}

func register(t *testing.T, r *gin.Engine, name, email, role string) string {
	t.Helper()

	w := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "TestPass123!",
		"role":     role,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}

	token, ok := decode(t, w)["token"].(string)

	if !ok || token == "" {
		t.Fatalf("register %s: expected a token in the response", email)
	}

	return token
}

func createProject(t *testing.T, r *gin.Engine, token, coupleName string) uint {
	t.Helper()

	w := request(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"couple_name":  coupleName,
		"event_date":   "2026-06-01",
		"event_type":   "Wedding",
		"location":     "Nairobi",
		"service_type": "Photo + Video",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	return uint(decode(t, w)["id"].(float64))
}

func inviteMember(t *testing.T, r *gin.Engine, token, name, role, email string) (uint, string) {
	t.Helper()

	w := request(t, r, http.MethodPost, "/api/team", token, gin.H{
		"name":  name,
		"role":  role,
		"email": email,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("invite member: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	member := body["member"].(map[string]interface{})
	link := body["debug_link"].(string)

	return uint(member["id"].(float64)), tokenFromLink(t, link)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()

	parts := strings.Split(link, "/accept-invitation/")

	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("unexpected invitation link %q", link)
	}

	return parts[1]
}

func TestUnauthenticatedProjectListRejected(t *testing.T) {
	r := setupRouter(t)

	w := request(t, r, http.MethodGet, "/api/projects", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated list, got %d", w.Code)
	}
}

func TestProjectListScopedToOwner(t *testing.T) {
	r := setupRouter(t)

	ownerA := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	ownerB := register(t, r, "Owner B", "b@example.com", models.RoleStudioOwner)

	createProject(t, r, ownerA, "Alice & Bob")

	w := request(t, r, http.MethodGet, "/api/projects", ownerB, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list projects: expected 200, got %d", w.Code)
	}

	if projects := decodeList(t, w); len(projects) != 0 {
		t.Fatalf("expected owner B to see no projects, got %v", projects)
	}
}

func TestInvitedContractorSeesStudioProjects(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	projectID := createProject(t, r, owner, "Alice & Bob")

	inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")

	contractor := register(t, r, "Contractor", "contractor@example.com", models.RolePhotographer)

	w := request(t, r, http.MethodGet, "/api/projects", contractor, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list projects: expected 200, got %d", w.Code)
	}

	projects := decodeList(t, w)

	if len(projects) != 1 {
		t.Fatalf("expected contractor to see exactly one project, got %v", projects)
	}

	if uint(projects[0]["id"].(float64)) != projectID {
		t.Fatalf("expected project %d, got %v", projectID, projects[0])
	}

	if projects[0]["couple_name"] != "Alice & Bob" {
		t.Fatalf("unexpected project payload: %v", projects[0])
	}
}

func TestResendRotatesInvitationToken(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	memberID, oldToken := inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")

	w := request(t, r, http.MethodPost, "/api/team/"+itoa(memberID)+"/resend", owner, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("resend: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	newToken := tokenFromLink(t, decode(t, w)["debug_link"].(string))

	if newToken == oldToken {
		t.Fatal("expected resend to rotate the token")
	}

	if w := request(t, r, http.MethodGet, "/api/invitations/"+oldToken, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected old token lookup to 404, got %d", w.Code)
	}

	w = request(t, r, http.MethodGet, "/api/invitations/"+newToken, "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected new token lookup to succeed, got %d", w.Code)
	}

	body := decode(t, w)

	if body["email"] != "contractor@example.com" || body["role"] != "photographer" || body["valid"] != true {
		t.Fatalf("unexpected lookup payload: %v", body)
	}
}

func TestAcceptInvitationIsIdempotent(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	_, token := inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")

	for i := 0; i < 2; i++ {
		w := request(t, r, http.MethodPost, "/api/invitations/"+token+"/accept", "", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("accept attempt %d: expected 200, got %d: %s", i+1, w.Code, w.Body.String())
		}

		body := decode(t, w)

		if body["status"] != "joined" {
			t.Fatalf("accept attempt %d: expected joined, got %v", i+1, body)
		}
	}
}

func TestAcceptUnknownTokenNotFound(t *testing.T) {
	r := setupRouter(t)

	w := request(t, r, http.MethodPost, "/api/invitations/not-a-token/accept", "", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown token, got %d", w.Code)
	}
}

func TestDuplicateInvitationConflicts(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")

	w := request(t, r, http.MethodPost, "/api/team", owner, gin.H{
		"name":  "Contractor Again",
		"role":  "editor",
		"email": "Contractor@Example.com",
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate invitee, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTeamMemberHasReadButNotWriteAccess(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	projectID := createProject(t, r, owner, "Alice & Bob")

	inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")
	contractor := register(t, r, "Contractor", "contractor@example.com", models.RolePhotographer)

	if w := request(t, r, http.MethodGet, "/api/projects/"+itoa(projectID), contractor, nil); w.Code != http.StatusOK {
		t.Fatalf("expected contractor to read the project, got %d", w.Code)
	}

	w := request(t, r, http.MethodPatch, "/api/projects/"+itoa(projectID), contractor, gin.H{
		"couple_name": "Hijacked",
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for team member write, got %d: %s", w.Code, w.Body.String())
	}

	if w := request(t, r, http.MethodDelete, "/api/projects/"+itoa(projectID), contractor, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for team member delete, got %d", w.Code)
	}
}

func TestInvisibleProjectBehavesAsMissing(t *testing.T) {
	r := setupRouter(t)

	ownerA := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	ownerB := register(t, r, "Owner B", "b@example.com", models.RoleStudioOwner)

	projectID := createProject(t, r, ownerA, "Alice & Bob")

	if w := request(t, r, http.MethodGet, "/api/projects/"+itoa(projectID), ownerB, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for invisible detail, got %d", w.Code)
	}

	w := request(t, r, http.MethodPatch, "/api/projects/"+itoa(projectID), ownerB, gin.H{
		"couple_name": "Hijacked",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for invisible update, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTaskVisibilityNarrowedByAssignee(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	projectID := createProject(t, r, owner, "Alice & Bob")

	w := request(t, r, http.MethodPost, "/api/tasks", owner, gin.H{
		"project_id":  projectID,
		"title":       "Edit highlight reel",
		"assigned_to": "Jane Doe",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	inviteMember(t, r, owner, "jane doe", "videographer", "jane@example.com")
	inviteMember(t, r, owner, "John Smith", "videographer", "john@example.com")

	jane := register(t, r, "jane doe", "jane@example.com", models.RoleVideographer)
	john := register(t, r, "John Smith", "john@example.com", models.RoleVideographer)

	w = request(t, r, http.MethodGet, "/api/tasks", jane, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list tasks: expected 200, got %d", w.Code)
	}

	janeTasks := decodeList(t, w)

	if len(janeTasks) != 1 || janeTasks[0]["assigned_to"] != "Jane Doe" {
		t.Fatalf("expected jane to see her task, got %v", janeTasks)
	}

	w = request(t, r, http.MethodGet, "/api/tasks", john, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list tasks: expected 200, got %d", w.Code)
	}

	if johnTasks := decodeList(t, w); len(johnTasks) != 0 {
		t.Fatalf("expected john to see no tasks, got %v", johnTasks)
	}

	w = request(t, r, http.MethodGet, "/api/tasks", owner, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list tasks: expected 200, got %d", w.Code)
	}

	if ownerTasks := decodeList(t, w); len(ownerTasks) != 1 {
		t.Fatalf("expected the studio owner to see the task, got %v", ownerTasks)
	}
}

func TestEventChildrenScopedThroughParentChain(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	outsider := register(t, r, "Owner B", "b@example.com", models.RoleStudioOwner)
	projectID := createProject(t, r, owner, "Alice & Bob")

	w := request(t, r, http.MethodPost, "/api/events", owner, gin.H{
		"project_id": projectID,
		"event_name": "Reception",
		"event_date": "2026-06-02",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create event: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	eventID := uint(decode(t, w)["id"].(float64))

	w = request(t, r, http.MethodPost, "/api/checklists", owner, gin.H{
		"event_id":  eventID,
		"item_name": "Charge batteries",
		"category":  "Equipment",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create checklist: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if w := request(t, r, http.MethodGet, "/api/events/"+itoa(eventID), outsider, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign event detail, got %d", w.Code)
	}

	w = request(t, r, http.MethodGet, "/api/checklists?event_id="+itoa(eventID), outsider, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list checklists: expected 200, got %d", w.Code)
	}

	if items := decodeList(t, w); len(items) != 0 {
		t.Fatalf("expected outsider to see no checklist items, got %v", items)
	}
}

func TestCrossOwnerEventCreationRejected(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "Owner A", "a@example.com", models.RoleStudioOwner)
	projectID := createProject(t, r, owner, "Alice & Bob")

	inviteMember(t, r, owner, "Contractor", "photographer", "contractor@example.com")
	contractor := register(t, r, "Contractor", "contractor@example.com", models.RolePhotographer)

	w := request(t, r, http.MethodPost, "/api/events", contractor, gin.H{
		"project_id": projectID,
		"event_name": "Sneaky shoot",
		"event_date": "2026-06-03",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-owner event creation, got %d: %s", w.Code, w.Body.String())
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
