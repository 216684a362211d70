package integration_test

import (
	"fmt"
	"net/http"
	"testing"

	"findtern_backend/internal/models"
	"findtern_backend/internal/services/dto"
	"findtern_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteProject_DeletesUnreferenced(t *testing.T) {
	ts := GetTestServer(t)
	employer := helpers.SignupEmployer(t, ts)
	project := helpers.CreateProject(t, ts, employer)

	path := fmt.Sprintf("/api/employer/%s/projects/%s", employer.Employer.ID, project.ID)
	res, body := ts.SendRequest(t, http.MethodDelete, path, employer.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var result dto.DeleteProjectResponse
	helpers.DecodeJSON(t, body, &result)
	assert.True(t, result.Deleted)
	assert.False(t, result.Archived)

	res, _ = ts.SendRequest(t, http.MethodGet, path, employer.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteProject_ArchivesWhenProposalsExist(t *testing.T) {
	ts := GetTestServer(t)
	employer := helpers.SignupEmployer(t, ts)
	intern := helpers.SignupIntern(t, ts)
	project := helpers.CreateProject(t, ts, employer)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/proposals", employer.AccessToken, dto.CreateProposalRequest{
		EmployerID: employer.Employer.ID,
		InternID:   intern.User.ID,
		ProjectID:  project.ID,
		FlowType:   string(models.FlowTypeDirect),
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	path := fmt.Sprintf("/api/employer/%s/projects/%s", employer.Employer.ID, project.ID)
	res, body = ts.SendRequest(t, http.MethodDelete, path, employer.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var result dto.DeleteProjectResponse
	helpers.DecodeJSON(t, body, &result)
	assert.True(t, result.Archived)
	assert.False(t, result.Deleted)

	// архивные проекты скрыты из списка по умолчанию
	listPath := fmt.Sprintf("/api/employer/%s/projects", employer.Employer.ID)
	res, body = ts.SendRequest(t, http.MethodGet, listPath, employer.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var active []dto.ProjectResponse
	helpers.DecodeJSON(t, body, &active)
	assert.Empty(t, active)

	res, body = ts.SendRequest(t, http.MethodGet, listPath+"?includeArchived=true", employer.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var all []dto.ProjectResponse
	helpers.DecodeJSON(t, body, &all)
	require.Len(t, all, 1)
	assert.Equal(t, models.ProjectStatusArchived, all[0].Status)

	// на архивный проект новый оффер не создается
	res, body = ts.SendRequest(t, http.MethodPost, "/api/proposals", employer.AccessToken, dto.CreateProposalRequest{
		EmployerID: employer.Employer.ID,
		InternID:   intern.User.ID,
		ProjectID:  project.ID,
		FlowType:   string(models.FlowTypeDirect),
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
}

func TestProjects_OtherEmployerForbidden(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.SignupEmployer(t, ts)
	other := helpers.SignupEmployer(t, ts)
	project := helpers.CreateProject(t, ts, owner)

	path := fmt.Sprintf("/api/employer/%s/projects/%s", owner.Employer.ID, project.ID)
	res, body := ts.SendRequest(t, http.MethodDelete, path, other.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	// стажер в кабинет работодателя не попадает
	intern := helpers.SignupIntern(t, ts)
	res, _ = ts.SendRequest(t, http.MethodGet, path, intern.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
