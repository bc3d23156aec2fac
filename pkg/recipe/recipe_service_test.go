package recipe

import (
	"context"
	"dishcovery/domain"
	"dishcovery/entities"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRecipeRepository struct {
	mu      sync.Mutex
	recipes map[string]*entities.Recipe
	dishes  []DishToRecreate
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: make(map[string]*entities.Recipe)}
}

func (r *fakeRecipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[recipe.ID.String()] = recipe
	return nil
}

func (r *fakeRecipeRepository) UpsertRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.CreateRecipe(ctx, recipe)
}

func (r *fakeRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (r *fakeRecipeRepository) ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Recipe
	for _, recipe := range r.recipes {
		if recipe.UserID.String() == userID {
			result = append(result, recipe)
		}
	}
	return result, nil
}

func (r *fakeRecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recipes, id)
	return nil
}

func (r *fakeRecipeRepository) ListDishesToRecreate(ctx context.Context, userID string) ([]DishToRecreate, error) {
	return r.dishes, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	failFor map[string]bool
	calls   []string
}

func (g *fakeGenerator) GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest) (domain.GeneratedRecipe, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req.DishName)
	fail := g.failFor[req.DishName]
	g.mu.Unlock()

	if fail {
		return domain.GeneratedRecipe{}, errors.New("model returned garbage")
	}
	return domain.GeneratedRecipe{
		Title:        "Homestyle " + req.DishName,
		Ingredients:  []string{"rice", "egg"},
		Instructions: []string{"cook it"},
		CookTime:     "30 minutes",
		Servings:     "2",
		Difficulty:   "easy",
		CuisineType:  "Indonesian",
	}, nil
}

type fakeDishResolver struct {
	dishes map[string]*entities.Dish
	owners map[string]string
}

func newFakeDishResolver() *fakeDishResolver {
	return &fakeDishResolver{
		dishes: make(map[string]*entities.Dish),
		owners: make(map[string]string),
	}
}

func (r *fakeDishResolver) FindDishByVisitAndName(ctx context.Context, visitID string, name string) (*entities.Dish, error) {
	dish, ok := r.dishes[visitID+"/"+name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dish, nil
}

func (r *fakeDishResolver) GetDishOwner(ctx context.Context, dishID string) (string, error) {
	owner, ok := r.owners[dishID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return owner, nil
}

type recipeFixture struct {
	service   RecipeService
	repo      *fakeRecipeRepository
	generator *fakeGenerator
	resolver  *fakeDishResolver
}

func newRecipeFixture() *recipeFixture {
	repo := newFakeRecipeRepository()
	generator := &fakeGenerator{failFor: make(map[string]bool)}
	resolver := newFakeDishResolver()
	return &recipeFixture{
		service:   NewRecipeService(repo, generator, resolver),
		repo:      repo,
		generator: generator,
		resolver:  resolver,
	}
}

func TestGenerateForDishPersistsAndLinks(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	userID := uuid.New().String()
	dishID := uuid.New()
	f.resolver.owners[dishID.String()] = userID

	res, err := f.service.GenerateForDish(ctx, domain.GenerateRecipeRequest{
		DishName: "Nasi Goreng",
		DishID:   dishID.String(),
	}, userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if res.Title != "Homestyle Nasi Goreng" {
		t.Fatalf("unexpected title %q", res.Title)
	}
	if res.SourceType != domain.RecipeSourceAI {
		t.Fatalf("expected ai source, got %q", res.SourceType)
	}
	if res.LinkedDishID != dishID.String() {
		t.Fatalf("expected link to dish, got %q", res.LinkedDishID)
	}
	if len(f.repo.recipes) != 1 {
		t.Fatalf("expected 1 persisted recipe, got %d", len(f.repo.recipes))
	}
}

func TestGenerateForDishRejectsForeignDish(t *testing.T) {
	f := newRecipeFixture()
	dishID := uuid.New()
	f.resolver.owners[dishID.String()] = uuid.New().String()

	_, err := f.service.GenerateForDish(context.Background(), domain.GenerateRecipeRequest{
		DishName: "Nasi Goreng",
		DishID:   dishID.String(),
	}, uuid.New().String())
	if err != domain.ErrUnauthorizedAccess {
		t.Fatalf("expected ErrUnauthorizedAccess, got %v", err)
	}
	if len(f.repo.recipes) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	f := newRecipeFixture()
	f.generator.failFor["Sate Ayam"] = true
	userID := uuid.New().String()

	res := f.service.GenerateBatch(context.Background(), domain.BatchGenerateRecipesRequest{
		VisitID:        uuid.New().String(),
		RestaurantName: "Warung Sari",
		Dishes: []domain.BatchGenerateDish{
			{Name: "Nasi Goreng"},
			{Name: "Sate Ayam"},
		},
	}, userID)

	if !res.Success {
		t.Fatalf("batch should report success despite one failure")
	}
	if res.RecipesGenerated != 1 {
		t.Fatalf("expected 1 generated recipe, got %d", res.RecipesGenerated)
	}
	if len(f.repo.recipes) != 1 {
		t.Fatalf("expected 1 persisted recipe, got %d", len(f.repo.recipes))
	}
	if len(f.generator.calls) != 2 {
		t.Fatalf("every dish should be attempted, got %d calls", len(f.generator.calls))
	}
}

func TestGenerateBatchLinksRecipesToDishes(t *testing.T) {
	f := newRecipeFixture()
	userID := uuid.New().String()
	visitID := uuid.New()
	dish := &entities.Dish{ID: uuid.New(), VisitID: visitID, Name: "Nasi Goreng"}
	f.resolver.dishes[visitID.String()+"/Nasi Goreng"] = dish

	f.service.GenerateBatch(context.Background(), domain.BatchGenerateRecipesRequest{
		VisitID: visitID.String(),
		Dishes: []domain.BatchGenerateDish{
			{Name: "Nasi Goreng"},
			{Name: "Sate Ayam"}, // no matching dish row
		},
	}, userID)

	linked, unlinked := 0, 0
	for _, recipe := range f.repo.recipes {
		if recipe.LinkedDishID != nil {
			if *recipe.LinkedDishID != dish.ID {
				t.Fatalf("linked to wrong dish: %v", recipe.LinkedDishID)
			}
			linked++
		} else {
			unlinked++
		}
	}
	if linked != 1 || unlinked != 1 {
		t.Fatalf("expected 1 linked and 1 unlinked recipe, got %d/%d", linked, unlinked)
	}
}

func TestSaveAndDeleteRecipe(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	userID := uuid.New().String()

	saved, err := f.service.SaveRecipe(ctx, domain.SaveRecipeRequest{
		Title:       "Rendang",
		Ingredients: []string{"beef", "coconut milk"},
		SourceURL:   "https://example.com/rendang",
	}, userID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.SourceType != domain.RecipeSourceWeb {
		t.Fatalf("expected web source by default, got %q", saved.SourceType)
	}

	if err := f.service.DeleteRecipe(ctx, saved.ID, uuid.New().String()); err != domain.ErrUnauthorizedAccess {
		t.Fatalf("expected ErrUnauthorizedAccess, got %v", err)
	}
	if err := f.service.DeleteRecipe(ctx, saved.ID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.service.DeleteRecipe(ctx, saved.ID, userID); err != domain.ErrRecipeNotFound {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestDiscoveryFiltersByQuery(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	userID := uuid.New().String()

	if _, err := f.service.SaveRecipe(ctx, domain.SaveRecipeRequest{Title: "Beef Rendang"}, userID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := f.service.SaveRecipe(ctx, domain.SaveRecipeRequest{Title: "Chicken Satay"}, userID); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.repo.dishes = []DishToRecreate{
		{DishID: uuid.New(), Name: "Rendang Padang", RestaurantName: "Warung Sari", VisitDate: time.Now()},
		{DishID: uuid.New(), Name: "Es Teh", RestaurantName: "Warung Sari", VisitDate: time.Now()},
	}

	res, err := f.service.Discovery(ctx, userID, "rendang")
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(res.Recipes) != 1 || res.Recipes[0].Title != "Beef Rendang" {
		t.Fatalf("unexpected recipes: %+v", res.Recipes)
	}
	if len(res.DishesToRecreate) != 1 || res.DishesToRecreate[0].Name != "Rendang Padang" {
		t.Fatalf("unexpected dishes: %+v", res.DishesToRecreate)
	}

	all, err := f.service.Discovery(ctx, userID, "")
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(all.Recipes) != 2 || len(all.DishesToRecreate) != 2 {
		t.Fatalf("empty query should return everything, got %d/%d", len(all.Recipes), len(all.DishesToRecreate))
	}
}

func TestDiscoveryMatchesIngredients(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	userID := uuid.New().String()

	if _, err := f.service.SaveRecipe(ctx, domain.SaveRecipeRequest{
		Title:       "Mystery Stew",
		Ingredients: []string{"Lemongrass", "galangal"},
	}, userID); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := f.service.Discovery(ctx, userID, "LEMONGRASS")
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if len(res.Recipes) != 1 {
		t.Fatalf("expected an ingredient match, got %d recipes", len(res.Recipes))
	}
}
