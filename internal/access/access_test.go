package access

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/weddingflow/weddingflow/internal/middleware"
	"github.com/weddingflow/weddingflow/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	tx, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = tx.AutoMigrate(
		&models.User{},
		&models.TeamMember{},
		&models.Project{},
		&models.Event{},
		&models.Task{},
		&models.EventChecklist{},
		&models.FileSubmission{},
		&models.UserPreference{},
	)

	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return tx
}

func createUser(t *testing.T, tx *gorm.DB, name, email, role string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "x", Role: role}

	if err := tx.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

func createMember(t *testing.T, tx *gorm.DB, ownerID uint, email, status string) models.TeamMember {
	t.Helper()

	member := models.TeamMember{
		OwnerID:         ownerID,
		Name:            "Member",
		Role:            "photographer",
		Email:           email,
		Status:          status,
		InvitationToken: uuid.NewString(),
	}

	if err := tx.Create(&member).Error; err != nil {
		t.Fatalf("failed to create team member: %v", err)
	}

	return member
}

func createProject(t *testing.T, tx *gorm.DB, ownerID uint, coupleName string) models.Project {
	t.Helper()

	project := models.Project{
		OwnerID:     ownerID,
		CoupleName:  coupleName,
		EventDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EventType:   "Wedding",
		Location:    "Nairobi",
		ServiceType: "Photo + Video",
		Status:      models.ProjectStatusActive,
	}

	if err := tx.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

func asIdentity(user models.User) middleware.AuthenticatedUser {
	return middleware.AuthenticatedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

func TestEffectiveOwnersIncludesSelf(t *testing.T) {
	tx := openTestDB(t)
	user := createUser(t, tx, "Solo", "solo@example.com", models.RolePhotographer)

	owners, err := EffectiveOwners(tx, asIdentity(user))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	if len(owners) != 1 || owners[0] != user.ID {
		t.Fatalf("expected owners to be exactly the identity itself, got %v", owners)
	}
}

func TestEffectiveOwnersIncludesSentAndJoinedMemberships(t *testing.T) {
	tx := openTestDB(t)
	ownerA := createUser(t, tx, "Owner A", "a@example.com", models.RoleStudioOwner)
	ownerB := createUser(t, tx, "Owner B", "b@example.com", models.RoleStudioOwner)
	ownerC := createUser(t, tx, "Owner C", "c@example.com", models.RoleStudioOwner)
	ownerD := createUser(t, tx, "Owner D", "d@example.com", models.RoleStudioOwner)
	contractor := createUser(t, tx, "Contractor", "contractor@example.com", models.RolePhotographer)

	createMember(t, tx, ownerA.ID, "contractor@example.com", models.MemberStatusSent)
	createMember(t, tx, ownerB.ID, "contractor@example.com", models.MemberStatusJoined)
	createMember(t, tx, ownerC.ID, "contractor@example.com", models.MemberStatusPending)
	createMember(t, tx, ownerD.ID, "contractor@example.com", models.MemberStatusLeft)

	owners, err := EffectiveOwners(tx, asIdentity(contractor))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	expected := map[uint]bool{contractor.ID: true, ownerA.ID: true, ownerB.ID: true}

	if len(owners) != len(expected) {
		t.Fatalf("expected %d owners, got %v", len(expected), owners)
	}

	for _, id := range owners {
		if !expected[id] {
			t.Fatalf("unexpected owner %d in %v", id, owners)
		}
	}
}

func TestEffectiveOwnersMatchesEmailCaseInsensitively(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)
	contractor := createUser(t, tx, "Contractor", "Contractor@Example.com", models.RolePhotographer)

	createMember(t, tx, owner.ID, "contractor@example.com", models.MemberStatusSent)

	owners, err := EffectiveOwners(tx, asIdentity(contractor))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	found := false

	for _, id := range owners {
		if id == owner.ID {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected owner %d in effective owners %v", owner.ID, owners)
	}
}

func TestProjectsScopeExcludesOtherOwners(t *testing.T) {
	tx := openTestDB(t)
	ownerA := createUser(t, tx, "Owner A", "a@example.com", models.RoleStudioOwner)
	ownerB := createUser(t, tx, "Owner B", "b@example.com", models.RoleStudioOwner)

	p1 := createProject(t, tx, ownerA.ID, "Alice & Bob")
	createProject(t, tx, ownerB.ID, "Chris & Dana")

	var projects []models.Project

	if err := Projects(tx, []uint{ownerA.ID}).Find(&projects).Error; err != nil {
		t.Fatalf("Projects scope: %v", err)
	}

	if len(projects) != 1 || projects[0].ID != p1.ID {
		t.Fatalf("expected exactly project %d, got %v", p1.ID, projects)
	}
}

func TestTasksNarrowedByDisplayNameForNonManagerialRole(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)
	jane := createUser(t, tx, "jane doe", "jane@example.com", models.RoleVideographer)
	john := createUser(t, tx, "John Smith", "john@example.com", models.RoleVideographer)

	createMember(t, tx, owner.ID, "jane@example.com", models.MemberStatusJoined)
	createMember(t, tx, owner.ID, "john@example.com", models.MemberStatusJoined)

	project := createProject(t, tx, owner.ID, "Alice & Bob")

	task := models.Task{ProjectID: project.ID, Title: "Edit highlights", AssignedTo: "Jane Doe", Status: "pending"}

	if err := tx.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	janeOwners, err := EffectiveOwners(tx, asIdentity(jane))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	var janeTasks []models.Task

	if err := Tasks(tx, asIdentity(jane), janeOwners).Find(&janeTasks).Error; err != nil {
		t.Fatalf("Tasks scope: %v", err)
	}

	if len(janeTasks) != 1 || janeTasks[0].ID != task.ID {
		t.Fatalf("expected jane to see task %d, got %v", task.ID, janeTasks)
	}

	johnOwners, err := EffectiveOwners(tx, asIdentity(john))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	var johnTasks []models.Task

	if err := Tasks(tx, asIdentity(john), johnOwners).Find(&johnTasks).Error; err != nil {
		t.Fatalf("Tasks scope: %v", err)
	}

	if len(johnTasks) != 0 {
		t.Fatalf("expected john to see no tasks, got %v", johnTasks)
	}
}

func TestTasksMatchedByRoleForNonManagerialIdentity(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)
	editor := createUser(t, tx, "Sam", "sam@example.com", models.RoleEditor)

	createMember(t, tx, owner.ID, "sam@example.com", models.MemberStatusJoined)

	project := createProject(t, tx, owner.ID, "Alice & Bob")

	task := models.Task{ProjectID: project.ID, Title: "Color grade", AssignedTo: "Editor", Status: "pending"}

	if err := tx.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	owners, err := EffectiveOwners(tx, asIdentity(editor))

	if err != nil {
		t.Fatalf("EffectiveOwners: %v", err)
	}

	var tasks []models.Task

	if err := Tasks(tx, asIdentity(editor), owners).Find(&tasks).Error; err != nil {
		t.Fatalf("Tasks scope: %v", err)
	}

	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("expected role match to surface task %d, got %v", task.ID, tasks)
	}
}

func TestTasksFailClosedWithoutNameOrRole(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)

	project := createProject(t, tx, owner.ID, "Alice & Bob")

	task := models.Task{ProjectID: project.ID, Title: "Unassigned", AssignedTo: "", Status: "pending"}

	if err := tx.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	anonymous := middleware.AuthenticatedUser{ID: owner.ID, Email: "owner@example.com"}

	var tasks []models.Task

	if err := Tasks(tx, anonymous, []uint{owner.ID}).Find(&tasks).Error; err != nil {
		t.Fatalf("Tasks scope: %v", err)
	}

	if len(tasks) != 0 {
		t.Fatalf("expected empty result for identity with no name or role, got %v", tasks)
	}
}

func TestManagerialRoleSeesAllTasks(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)

	project := createProject(t, tx, owner.ID, "Alice & Bob")

	tasksToCreate := []models.Task{
		{ProjectID: project.ID, Title: "One", AssignedTo: "Jane Doe", Status: "pending"},
		{ProjectID: project.ID, Title: "Two", AssignedTo: "Someone Else", Status: "pending"},
	}

	for i := range tasksToCreate {
		if err := tx.Create(&tasksToCreate[i]).Error; err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	var tasks []models.Task

	if err := Tasks(tx, asIdentity(owner), []uint{owner.ID}).Find(&tasks).Error; err != nil {
		t.Fatalf("Tasks scope: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected studio owner to see both tasks, got %v", tasks)
	}
}

func TestTeamMembersVisibleToOwnerAndInvitee(t *testing.T) {
	tx := openTestDB(t)
	owner := createUser(t, tx, "Owner", "owner@example.com", models.RoleStudioOwner)
	invitee := createUser(t, tx, "Invitee", "invitee@example.com", models.RolePhotographer)
	stranger := createUser(t, tx, "Stranger", "stranger@example.com", models.RolePhotographer)

	member := createMember(t, tx, owner.ID, "invitee@example.com", models.MemberStatusSent)

	var forOwner []models.TeamMember

	if err := TeamMembers(tx, asIdentity(owner)).Find(&forOwner).Error; err != nil {
		t.Fatalf("TeamMembers scope: %v", err)
	}

	if len(forOwner) != 1 || forOwner[0].ID != member.ID {
		t.Fatalf("expected owner to see membership %d, got %v", member.ID, forOwner)
	}

	var forInvitee []models.TeamMember

	if err := TeamMembers(tx, asIdentity(invitee)).Find(&forInvitee).Error; err != nil {
		t.Fatalf("TeamMembers scope: %v", err)
	}

	if len(forInvitee) != 1 || forInvitee[0].ID != member.ID {
		t.Fatalf("expected invitee to see membership %d, got %v", member.ID, forInvitee)
	}

	var forStranger []models.TeamMember

	if err := TeamMembers(tx, asIdentity(stranger)).Find(&forStranger).Error; err != nil {
		t.Fatalf("TeamMembers scope: %v", err)
	}

	if len(forStranger) != 0 {
		t.Fatalf("expected stranger to see no memberships, got %v", forStranger)
	}
}
