//go:build integration
// +build integration

package integration_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContributionLifecycle walks a contribution from creation through review
// to the node appearing in the published tree. The API server must be running
// on localhost:8080 against the same database as the test runner.
func TestContributionLifecycle(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	var (
		authorToken   string
		reviewerToken string
		rootID        string
		crID          string
	)

	t.Run("register author and reviewer", func(t *testing.T) {
		authorToken, _ = env.registerAndLogin(t, "author@example.com", "Author User")
		env.registerAndLogin(t, "reviewer@example.com", "Reviewer User")
		env.promote(t, "reviewer@example.com", "verifier")
		reviewerToken = env.login(t, "reviewer@example.com")
	})

	t.Run("author creates a root node", func(t *testing.T) {
		var node struct {
			ID              string `json:"id"`
			GenerationDepth int    `json:"generation_depth"`
			Status          string `json:"status"`
		}
		resp := env.doJSON(t, "POST", "/nodes", authorToken, map[string]interface{}{
			"type":    "ROOT",
			"name":    "Adnan",
			"name_ar": "عدنان",
		}, &node)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, 0, node.GenerationDepth)
		assert.Equal(t, "DRAFT", node.Status)
		rootID = node.ID
	})

	t.Run("author submits an ADD_NODE contribution", func(t *testing.T) {
		var cr struct {
			ID          string   `json:"id"`
			Status      string   `json:"status"`
			AllowedNext []string `json:"allowed_next"`
		}
		resp := env.doJSON(t, "POST", "/contributions", authorToken, map[string]interface{}{
			"type":    "ADD_NODE",
			"node_id": rootID,
			"payload": map[string]interface{}{
				"type":    "TRIBE",
				"name":    "Mudar",
				"name_ar": "مضر",
			},
		}, &cr)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "PENDING", cr.Status)
		assert.Contains(t, cr.AllowedNext, "APPROVED")
		crID = cr.ID
	})

	t.Run("reviewer sees it in the pending queue", func(t *testing.T) {
		var result struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		resp := env.doJSON(t, "GET", "/contributions?status=PENDING", reviewerToken, nil, &result)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		found := false
		for _, item := range result.Data {
			if item.ID == crID {
				found = true
			}
		}
		assert.True(t, found, "contribution should be in the pending queue")
	})

	t.Run("reviewer approves", func(t *testing.T) {
		var cr struct {
			Status      string   `json:"status"`
			AllowedNext []string `json:"allowed_next"`
		}
		resp := env.doJSON(t, "POST", "/contributions/"+crID+"/approve", reviewerToken, map[string]interface{}{
			"note": "well sourced",
		}, &cr)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "APPROVED", cr.Status)
		assert.Empty(t, cr.AllowedNext)
	})

	t.Run("the approved node is published under the root", func(t *testing.T) {
		time.Sleep(100 * time.Millisecond)

		var subtree []struct {
			ID       string `json:"id"`
			Children []struct {
				Name            string `json:"name"`
				Status          string `json:"status"`
				GenerationDepth int    `json:"generation_depth"`
			} `json:"children"`
		}
		resp := env.doJSON(t, "GET", "/nodes/"+rootID+"/subtree", authorToken, nil, &subtree)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, subtree)

		found := false
		for _, child := range subtree[0].Children {
			if child.Name == "Mudar" {
				found = true
				assert.Equal(t, "PUBLISHED", child.Status)
				assert.Equal(t, 1, child.GenerationDepth)
			}
		}
		assert.True(t, found, "approved node should hang under the root")
	})

	t.Run("a terminal contribution rejects further review", func(t *testing.T) {
		var errResp struct {
			Code string `json:"code"`
		}
		resp := env.doJSON(t, "POST", "/contributions/"+crID+"/reject", reviewerToken, nil, &errResp)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
	})
}

// TestRejectionAndResubmission covers the REJECTED -> PENDING loop.
func TestRejectionAndResubmission(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	authorToken, _ := env.registerAndLogin(t, "author2@example.com", "Second Author")
	env.registerAndLogin(t, "reviewer2@example.com", "Second Reviewer")
	env.promote(t, "reviewer2@example.com", "verifier")
	reviewerToken := env.login(t, "reviewer2@example.com")

	var root struct {
		ID string `json:"id"`
	}
	resp := env.doJSON(t, "POST", "/nodes", authorToken, map[string]interface{}{
		"type":    "ROOT",
		"name":    "Qahtan",
		"name_ar": "قحطان",
	}, &root)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cr struct {
		ID string `json:"id"`
	}
	resp = env.doJSON(t, "POST", "/contributions", authorToken, map[string]interface{}{
		"type":    "ADD_NODE",
		"node_id": root.ID,
		"payload": map[string]interface{}{
			"type":    "TRIBE",
			"name":    "Himyar",
			"name_ar": "حمير",
		},
	}, &cr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("reviewer rejects with a note", func(t *testing.T) {
		var rejected struct {
			Status         string  `json:"status"`
			ReviewNote     *string `json:"review_note"`
			RejectionCount int     `json:"rejection_count"`
		}
		resp := env.doJSON(t, "POST", "/contributions/"+cr.ID+"/reject", reviewerToken, map[string]interface{}{
			"note": "needs a source",
		}, &rejected)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "REJECTED", rejected.Status)
		assert.Equal(t, 1, rejected.RejectionCount)
		require.NotNil(t, rejected.ReviewNote)
		assert.Equal(t, "needs a source", *rejected.ReviewNote)
	})

	t.Run("author resubmits and review metadata resets", func(t *testing.T) {
		var resubmitted struct {
			Status         string  `json:"status"`
			ReviewNote     *string `json:"review_note"`
			ReviewerID     *string `json:"reviewer_id"`
			RejectionCount int     `json:"rejection_count"`
		}
		resp := env.doJSON(t, "POST", "/contributions/"+cr.ID+"/submit", authorToken, nil, &resubmitted)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "PENDING", resubmitted.Status)
		assert.Nil(t, resubmitted.ReviewNote)
		assert.Nil(t, resubmitted.ReviewerID)
		assert.Equal(t, 1, resubmitted.RejectionCount)
	})

	t.Run("author withdraws after the second thoughts", func(t *testing.T) {
		var withdrawn struct {
			Status string `json:"status"`
		}
		resp := env.doJSON(t, "POST", "/contributions/"+cr.ID+"/withdraw", authorToken, nil, &withdrawn)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "WITHDRAWN", withdrawn.Status)
	})
}
