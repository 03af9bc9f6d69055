package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfood/myfood-backend/api/models"
	"github.com/myfood/myfood-backend/internal/domain"
)

type mealsResponse struct {
	Date  string        `json:"date"`
	Meals []domain.Meal `json:"meals"`
}

func TestMealLifecycle(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "meals@example.com").Token

	var meal domain.Meal
	status := s.do(t, http.MethodPost, "/api/v1/meals", token,
		map[string]any{"name": "Almoço", "iconName": "sun", "position": 0}, &meal)
	require.Equal(t, http.StatusCreated, status)
	require.Positive(t, meal.ID)
	mealPath := "/api/v1/meals/" + strconv.FormatInt(meal.ID, 10)

	t.Run("invalid meal", func(t *testing.T) {
		status := s.do(t, http.MethodPost, "/api/v1/meals", token,
			map[string]any{"name": "Lanche", "iconName": "pizza", "position": 1}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var food domain.Food
	status = s.do(t, http.MethodPost, mealPath+"/foods", token, models.CreateFoodRequest{Name: "Arroz", Date: &day}, &food)
	require.Equal(t, http.StatusCreated, status)

	t.Run("meals of a day carry their foods", func(t *testing.T) {
		var res mealsResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/meals?date=2024-05-01", token, nil, &res))
		assert.Equal(t, "2024-05-01", res.Date)
		require.Len(t, res.Meals, 1)
		require.Len(t, res.Meals[0].Foods, 1)
		assert.Equal(t, "Arroz", res.Meals[0].Foods[0].Name)

		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/meals?date=2024-05-02", token, nil, &res))
		assert.Empty(t, res.Meals[0].Foods)
	})

	t.Run("position defaults to the end", func(t *testing.T) {
		var appended domain.Meal
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/meals", token,
			map[string]any{"name": "Ceia", "iconName": "moon"}, &appended))
		assert.Equal(t, 1, appended.Position)
		require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/meals/"+strconv.FormatInt(appended.ID, 10), token, nil, nil))
	})

	t.Run("food for a missing meal", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/meals/9999/foods", token,
			models.CreateFoodRequest{Name: "Pão"}, nil))
	})

	t.Run("moving a food to a missing meal hides the driver message", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPatch, s.URL+"/api/v1/foods/"+strconv.FormatInt(food.ID, 10),
			bytes.NewReader([]byte(`{"mealId": 9999}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusConflict, res.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.NotContains(t, body["error"], "FOREIGN KEY")
	})

	t.Run("bad date", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/meals?date=01/05/2024", token, nil, nil))
	})

	t.Run("update food", func(t *testing.T) {
		path := "/api/v1/foods/" + strconv.FormatInt(food.ID, 10)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, path, token, map[string]any{"calories": 130}, nil))

		var res models.FoodsResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/foods?date=2024-05-01", token, nil, &res))
		require.Len(t, res.Foods, 1)
		assert.Equal(t, 130, *res.Foods[0].Calories)

		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, "/api/v1/foods/9999", token, map[string]any{"calories": 1}, nil))
	})

	t.Run("add search results", func(t *testing.T) {
		var res models.FoodsResponse
		status := s.do(t, http.MethodPost, mealPath+"/foods/search-results?date=2024-05-01", token,
			models.SearchResultsRequest{Foods: []domain.FoodDTO{{FoodID: "9", FoodName: "Feijão", Calories: 76.4}}}, &res)
		require.Equal(t, http.StatusCreated, status)
		require.Len(t, res.Foods, 1)
		assert.Equal(t, 76, *res.Foods[0].Calories)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, mealPath, token, nil, nil))

		var res models.FoodsResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/foods?date=2024-05-01", token, nil, &res))
		assert.Empty(t, res.Foods)

		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, mealPath, token, nil, nil))
	})
}

func TestSearchFoodsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "search@example.com").Token
	s.foods.searched = []domain.FoodDTO{{FoodID: "1", FoodName: "Arroz branco", Calories: 130}}

	var res struct {
		Foods []domain.FoodDTO `json:"foods"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/foods/search?q=arroz", token, nil, &res))
	require.Len(t, res.Foods, 1)
	assert.Equal(t, "Arroz branco", res.Foods[0].FoodName)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/foods/search?q=", token, nil, &res))
	assert.Empty(t, res.Foods)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/foods/search?q=arroz&page=99", token, nil, nil))
}

func uploadPhoto(t *testing.T, s *testServer, token string, mealID int64) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "plate.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/v1/meals/"+strconv.FormatInt(mealID, 10)+"/photo?date=2024-05-01", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestUploadPhoto(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "photo@example.com").Token

	var meal domain.Meal
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/meals", token,
		map[string]any{"name": "Jantar", "iconName": "moon", "position": 4}, &meal))

	t.Run("nothing recognized", func(t *testing.T) {
		res := uploadPhoto(t, s, token, meal.ID)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

		entries, err := os.ReadDir(s.cfg.ImageDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "a rejected photo is not kept")
	})

	t.Run("missing meal", func(t *testing.T) {
		s.foods.recognized = []domain.FoodDTO{{FoodName: "Sopa", Calories: 80}}
		res := uploadPhoto(t, s, token, 9999)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)

		entries, err := os.ReadDir(s.cfg.ImageDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("recognized foods are stored", func(t *testing.T) {
		s.foods.recognized = []domain.FoodDTO{{FoodName: "Sopa", Calories: 80}, {FoodName: "Pão", Calories: 150}}

		res := uploadPhoto(t, s, token, meal.ID)
		require.Equal(t, http.StatusCreated, res.StatusCode)

		var out struct {
			Image string        `json:"image"`
			Foods []domain.Food `json:"foods"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		assert.Len(t, out.Foods, 2)

		_, err := os.Stat(filepath.Join(s.cfg.ImageDir, out.Image))
		assert.NoError(t, err, "the photo is kept under the image directory")
	})
}
