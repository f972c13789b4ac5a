package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedResponse struct {
	Page struct {
		Number   int  `json:"number"`
		NumPages int  `json:"num_pages"`
		Count    int  `json:"count"`
		HasNext  bool `json:"has_next"`
	} `json:"page"`
	Posts []struct {
		ID     int    `json:"id"`
		Text   string `json:"text"`
		Author string `json:"author"`
		Group  string `json:"group"`
	} `json:"posts"`
	Group *struct {
		Slug string `json:"slug"`
	} `json:"group"`
	Author *struct {
		Username  string `json:"username"`
		PostCount int    `json:"post_count"`
	} `json:"author"`
}

func decodeFeed(t *testing.T, body []byte) feedResponse {
	t.Helper()
	var out feedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAPIFeeds(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	group := app.createGroup(t, "poems")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		app.createPost(t, leo, "api-"+strconv.Itoa(i), base.Add(time.Duration(i)*time.Minute), group)
	}

	t.Run("posts", func(t *testing.T) {
		w := app.get("/api/posts/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		out := decodeFeed(t, w.Body.Bytes())
		assert.Equal(t, 1, out.Page.Number)
		assert.Equal(t, 2, out.Page.NumPages)
		assert.Equal(t, 12, out.Page.Count)
		assert.True(t, out.Page.HasNext)
		require.Len(t, out.Posts, 10)
		assert.Equal(t, "api-11", out.Posts[0].Text)
		assert.Equal(t, "leo", out.Posts[0].Author)
		assert.Equal(t, "poems", out.Posts[0].Group)
	})

	t.Run("group", func(t *testing.T) {
		out := decodeFeed(t, app.get("/api/group/poems/?page=2", nil).Body.Bytes())
		require.NotNil(t, out.Group)
		assert.Equal(t, "poems", out.Group.Slug)
		assert.Len(t, out.Posts, 2)
	})

	t.Run("profile", func(t *testing.T) {
		out := decodeFeed(t, app.get("/api/profile/leo/", nil).Body.Bytes())
		require.NotNil(t, out.Author)
		assert.Equal(t, 12, out.Author.PostCount)
	})

	t.Run("missing group", func(t *testing.T) {
		w := app.get("/api/group/none/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Not found", body["error"])
	})
}
