package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"freshguard/internal/model"

	"github.com/gin-gonic/gin"
)

func errorBody(message string) string {
	data, _ := json.Marshal(model.ErrorResponse{Error: model.ErrorDetail{Message: message}})
	return string(data)
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: message},
	})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidID, fmt.Sprintf("invalid %s parameter", name))
		return 0, false
	}
	return id, true
}

// Items

func (s *Server) listItems(c *gin.Context) {
	s.mu.Lock()
	items := slices.Clone(s.items)
	s.mu.Unlock()

	if items == nil {
		items = []model.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, "Item not found")
		return
	}
	c.JSON(http.StatusOK, s.items[idx])
}

func (s *Server) createItem(c *gin.Context) {
	var item model.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusCreated, s.insertItem(item))
}

func (s *Server) updateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var item model.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, "Item not found")
		return
	}
	item.ID = id
	item.Recipes = nil
	s.items[idx] = item
	c.JSON(http.StatusOK, item)
}

func (s *Server) patchItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch model.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, "Item not found")
		return
	}
	s.items[idx] = patch.Apply(s.items[idx])
	c.JSON(http.StatusOK, s.items[idx])
}

func (s *Server) deleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.itemIndex(id); idx >= 0 {
		s.items = slices.Delete(s.items, idx, idx+1)
	}
	for i := range s.recipes {
		s.recipes[i].ingredientIDs = slices.DeleteFunc(s.recipes[i].ingredientIDs, func(v int64) bool {
			return v == id
		})
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) itemRecipes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.itemIndex(id) < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, "Item not found")
		return
	}
	c.JSON(http.StatusOK, s.recipesUsing([]int64{id}))
}

// Recipes

func (s *Server) listRecipes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := make([]model.Recipe, 0, len(s.recipes))
	for _, rec := range s.recipes {
		recipes = append(recipes, s.resolve(rec))
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) getRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}
	c.JSON(http.StatusOK, s.resolve(s.recipes[idx]))
}

func (s *Server) createRecipe(c *gin.Context) {
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, ok := s.knownItems(c, recipe.IngredientIDs())
	if !ok {
		return
	}
	created := s.insertRecipe(recipe, ids)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}
	ids, ok := s.knownItems(c, recipe.IngredientIDs())
	if !ok {
		return
	}
	recipe.ID = id
	recipe.Ingredients = nil
	s.recipes[idx] = recipeRecord{recipe: recipe, ingredientIDs: ids}
	c.JSON(http.StatusOK, s.resolve(s.recipes[idx]))
}

func (s *Server) patchRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch model.RecipePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(id)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}

	rec := s.recipes[idx]
	if patch.Ingredients != nil {
		ids, ok := s.knownItems(c, model.Recipe{Ingredients: patch.Ingredients}.IngredientIDs())
		if !ok {
			return
		}
		rec.ingredientIDs = ids
		patch.Ingredients = nil
	}
	rec.recipe = patch.Apply(rec.recipe)
	s.recipes[idx] = rec
	c.JSON(http.StatusOK, s.resolve(rec))
}

func (s *Server) deleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.recipeIndex(id); idx >= 0 {
		s.recipes = slices.Delete(s.recipes, idx, idx+1)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addIngredient(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(recipeID)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}
	if s.itemIndex(itemID) < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, "Item not found")
		return
	}
	if !slices.Contains(s.recipes[idx].ingredientIDs, itemID) {
		s.recipes[idx].ingredientIDs = append(s.recipes[idx].ingredientIDs, itemID)
	}
	c.JSON(http.StatusOK, s.resolve(s.recipes[idx]))
}

func (s *Server) removeIngredient(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(recipeID)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}
	s.recipes[idx].ingredientIDs = slices.DeleteFunc(s.recipes[idx].ingredientIDs, func(v int64) bool {
		return v == itemID
	})
	c.JSON(http.StatusOK, s.resolve(s.recipes[idx]))
}

func (s *Server) setIngredients(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var itemIDs []int64
	if err := c.ShouldBindJSON(&itemIDs); err != nil {
		writeError(c, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(recipeID)
	if idx < 0 {
		writeError(c, http.StatusNotFound, model.ErrCodeRecipeNotFound, "Recipe not found")
		return
	}
	ids, ok := s.knownItems(c, itemIDs)
	if !ok {
		return
	}
	s.recipes[idx].ingredientIDs = ids
	c.JSON(http.StatusOK, s.resolve(s.recipes[idx]))
}

func (s *Server) findByIngredients(c *gin.Context) {
	var ids []int64
	for _, raw := range c.QueryArray("itemIds") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				writeError(c, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid itemIds parameter")
				return
			}
			ids = append(ids, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.recipesUsing(ids))
}

// Storage helpers; callers hold s.mu.

func (s *Server) insertItem(item model.Item) model.Item {
	s.nextItemID++
	item.ID = s.nextItemID
	item.Recipes = nil
	s.items = append(s.items, item)
	return item
}

func (s *Server) insertRecipe(recipe model.Recipe, ingredientIDs []int64) model.Recipe {
	s.nextRecipeID++
	recipe.ID = s.nextRecipeID
	recipe.Ingredients = nil
	rec := recipeRecord{recipe: recipe, ingredientIDs: ingredientIDs}
	s.recipes = append(s.recipes, rec)
	return s.resolve(rec)
}

func (s *Server) itemIndex(id int64) int {
	return slices.IndexFunc(s.items, func(item model.Item) bool { return item.ID == id })
}

func (s *Server) recipeIndex(id int64) int {
	return slices.IndexFunc(s.recipes, func(rec recipeRecord) bool { return rec.recipe.ID == id })
}

// knownItems de-duplicates ids and fails the request when one is unknown.
func (s *Server) knownItems(c *gin.Context, ids []int64) ([]int64, bool) {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if s.itemIndex(id) < 0 {
			writeError(c, http.StatusNotFound, model.ErrCodeItemNotFound, fmt.Sprintf("Item not found: %d", id))
			return nil, false
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, true
}

func (s *Server) resolve(rec recipeRecord) model.Recipe {
	recipe := rec.recipe
	recipe.Ingredients = make([]model.Item, 0, len(rec.ingredientIDs))
	for _, id := range rec.ingredientIDs {
		if idx := s.itemIndex(id); idx >= 0 {
			recipe.Ingredients = append(recipe.Ingredients, s.items[idx])
		}
	}
	return recipe
}

func (s *Server) recipesUsing(itemIDs []int64) []model.Recipe {
	out := []model.Recipe{}
	for _, rec := range s.recipes {
		for _, id := range itemIDs {
			if slices.Contains(rec.ingredientIDs, id) {
				out = append(out, s.resolve(rec))
				break
			}
		}
	}
	return out
}
