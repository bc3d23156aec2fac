package visit

import (
	"context"
	"dishcovery/domain"
	"dishcovery/entities"
	"dishcovery/internal/utils/storage"
	"dishcovery/pkg/recipe"
	"dishcovery/pkg/stats"
	"dishcovery/pkg/vision"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	VisitService interface {
		CaptureMenu(ctx context.Context, req domain.CaptureMenuRequest, userID string) (domain.SessionResponse, error)
		AnalyzeMenu(ctx context.Context, userID string) (domain.AnalyzeMenuResponse, error)
		GetSession(ctx context.Context, userID string) (domain.SessionResponse, error)
		SelectDishes(ctx context.Context, req domain.SelectDishesRequest, userID string) (domain.SessionResponse, error)
		RateDish(ctx context.Context, req domain.RateDishRequest, userID string) (domain.SessionResponse, error)
		CompleteVisit(ctx context.Context, req domain.CompleteVisitRequest, userID string) (domain.CompleteVisitResponse, <-chan domain.BatchGenerateRecipesResponse, error)
		ListVisits(ctx context.Context, userID string) ([]domain.VisitResponse, error)
		SearchVisits(ctx context.Context, userID string, query string) ([]domain.VisitResponse, error)
		GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error)
		GetVisit(ctx context.Context, id string, userID string) (domain.VisitResponse, error)
		UpdateVisit(ctx context.Context, id string, req domain.UpdateVisitRequest, userID string) (domain.VisitResponse, error)
		UpdateDish(ctx context.Context, id string, req domain.UpdateDishRequest, userID string) (domain.DishResponse, error)
		DeleteVisit(ctx context.Context, id string, userID string) error
		DeleteDish(ctx context.Context, id string, userID string) error
	}

	visitService struct {
		visitRepository VisitRepository
		sessions        *SessionStore
		extractor       vision.Extractor
		recipeService   recipe.RecipeService
		awsS3           storage.AwsS3
	}
)

func NewVisitService(visitRepository VisitRepository, sessions *SessionStore, extractor vision.Extractor, recipeService recipe.RecipeService, awsS3 storage.AwsS3) VisitService {
	return &visitService{
		visitRepository: visitRepository,
		sessions:        sessions,
		extractor:       extractor,
		recipeService:   recipeService,
		awsS3:           awsS3,
	}
}

// CaptureMenu reads the uploaded menu photo into the user's session and
// uploads a copy to object storage. The upload is best effort; analysis
// works off the in-memory bytes either way.
func (s *visitService) CaptureMenu(ctx context.Context, req domain.CaptureMenuRequest, userID string) (domain.SessionResponse, error) {
	if req.Photo == nil {
		return domain.SessionResponse{}, domain.ErrEmptyPhoto
	}

	photo, mimeType, err := readUpload(req.Photo)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	workflow := s.sessions.GetOrCreate(userID)
	if err := workflow.Capture(photo, mimeType); err != nil {
		return domain.SessionResponse{}, err
	}

	if s.awsS3 != nil {
		fileName := fmt.Sprintf("%s_%d", userID, time.Now().Unix())
		objectKey, err := s.awsS3.UploadFile(fileName, req.Photo, "menus", storage.AllowImage...)
		if err != nil {
			log.Printf("menu photo upload failed for user %s: %v", userID, err)
		} else {
			workflow.SetMenuPhotoURL(s.awsS3.GetPublicLinkKey(objectKey))
		}
	}

	return toSessionResponse(workflow), nil
}

// AnalyzeMenu runs the vision extractor over the captured photo. On failure
// the session moves to a retryable failed state and the caller gets a
// stable error to surface.
func (s *visitService) AnalyzeMenu(ctx context.Context, userID string) (domain.AnalyzeMenuResponse, error) {
	workflow, ok := s.sessions.Get(userID)
	if !ok {
		return domain.AnalyzeMenuResponse{}, domain.ErrNoActiveSession
	}

	photo, mimeType, err := workflow.BeginAnalysis()
	if err != nil {
		return domain.AnalyzeMenuResponse{}, err
	}

	candidates, err := s.extractor.ExtractDishes(ctx, photo, mimeType)
	if err != nil {
		log.Printf("menu analysis failed for user %s: %v", userID, err)
		workflow.FailAnalysis(domain.ErrAnalysisFailed.Error())
		return domain.AnalyzeMenuResponse{}, domain.ErrAnalysisFailed
	}

	if err := workflow.FinishAnalysis(candidates); err != nil {
		return domain.AnalyzeMenuResponse{}, err
	}
	return domain.AnalyzeMenuResponse{Dishes: candidates}, nil
}

func (s *visitService) GetSession(ctx context.Context, userID string) (domain.SessionResponse, error) {
	workflow, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionResponse{State: string(StateIdle)}, nil
	}
	return toSessionResponse(workflow), nil
}

func (s *visitService) SelectDishes(ctx context.Context, req domain.SelectDishesRequest, userID string) (domain.SessionResponse, error) {
	workflow, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionResponse{}, domain.ErrNoActiveSession
	}

	if err := workflow.Select(req.Indices); err != nil {
		return domain.SessionResponse{}, err
	}
	return toSessionResponse(workflow), nil
}

func (s *visitService) RateDish(ctx context.Context, req domain.RateDishRequest, userID string) (domain.SessionResponse, error) {
	workflow, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionResponse{}, domain.ErrNoActiveSession
	}

	if err := workflow.Rate(req.DishID, req.Rating, req.Notes, req.WantToRecreate); err != nil {
		return domain.SessionResponse{}, err
	}
	return toSessionResponse(workflow), nil
}

// CompleteVisit persists the drafted visit and its dishes, then kicks off
// recipe generation for every want-to-recreate dish in the background. The
// returned channel delivers the single batch result once generation
// finishes; callers that do not care may ignore it.
func (s *visitService) CompleteVisit(ctx context.Context, req domain.CompleteVisitRequest, userID string) (domain.CompleteVisitResponse, <-chan domain.BatchGenerateRecipesResponse, error) {
	workflow, ok := s.sessions.Get(userID)
	if !ok {
		return domain.CompleteVisitResponse{}, nil, domain.ErrNoActiveSession
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CompleteVisitResponse{}, nil, domain.ErrParseUUID
	}

	visitDate := time.Now().Truncate(24 * time.Hour)
	if req.VisitDate != "" {
		visitDate, err = time.Parse("2006-01-02", req.VisitDate)
		if err != nil {
			return domain.CompleteVisitResponse{}, nil, domain.ErrInvalidVisitDate
		}
	}

	if err := workflow.BeginSave(req.RestaurantName); err != nil {
		return domain.CompleteVisitResponse{}, nil, err
	}

	visit := &entities.RestaurantVisit{
		ID:             uuid.New(),
		UserID:         userUUID,
		RestaurantName: req.RestaurantName,
		Location:       req.Location,
		VisitDate:      visitDate,
		MenuPhotoURL:   workflow.MenuPhotoURL(),
		Notes:          req.Notes,
		OverallRating:  req.OverallRating,
	}

	ratings := workflow.Ratings()
	dishes := make([]*entities.Dish, 0, len(workflow.Selected()))
	toRecreate := make([]domain.BatchGenerateDish, 0)
	for _, selected := range workflow.Selected() {
		rating := ratings[selected.ID]
		dish := &entities.Dish{
			ID:             uuid.New(),
			VisitID:        visit.ID,
			Name:           selected.Name,
			Description:    selected.Description,
			Price:          selected.Price,
			Category:       selected.Category,
			Ordered:        true,
			Rating:         intPtr(rating.Rating),
			Notes:          rating.Notes,
			WantToRecreate: rating.WantToRecreate,
		}
		dishes = append(dishes, dish)
		if rating.WantToRecreate {
			toRecreate = append(toRecreate, domain.BatchGenerateDish{
				Name:        selected.Name,
				Description: selected.Description,
			})
		}
	}

	if err := s.visitRepository.CreateVisitWithDishes(ctx, visit, dishes); err != nil {
		workflow.FailSave(err.Error())
		return domain.CompleteVisitResponse{}, nil, err
	}

	workflow.FinishSave()
	s.sessions.Drop(userID)

	done := make(chan domain.BatchGenerateRecipesResponse, 1)
	if len(toRecreate) > 0 {
		batchReq := domain.BatchGenerateRecipesRequest{
			VisitID:        visit.ID.String(),
			RestaurantName: req.RestaurantName,
			Dishes:         toRecreate,
		}
		go func() {
			done <- s.recipeService.GenerateBatch(context.Background(), batchReq, userID)
			close(done)
		}()
	} else {
		close(done)
	}

	return domain.CompleteVisitResponse{
		VisitID:       visit.ID.String(),
		DishesSaved:   len(dishes),
		RecipesQueued: len(toRecreate),
	}, done, nil
}

func (s *visitService) ListVisits(ctx context.Context, userID string) ([]domain.VisitResponse, error) {
	visits, err := s.visitRepository.ListVisits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toVisitResponses(visits), nil
}

func (s *visitService) SearchVisits(ctx context.Context, userID string, query string) ([]domain.VisitResponse, error) {
	if query == "" {
		return s.ListVisits(ctx, userID)
	}

	visits, err := s.visitRepository.SearchVisits(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return toVisitResponses(visits), nil
}

func (s *visitService) GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error) {
	visits, err := s.visitRepository.ListVisits(ctx, userID)
	if err != nil {
		return domain.DashboardStatsResponse{}, err
	}
	return stats.Summarize(visits), nil
}

func (s *visitService) GetVisit(ctx context.Context, id string, userID string) (domain.VisitResponse, error) {
	visit, err := s.getOwnedVisit(ctx, id, userID)
	if err != nil {
		return domain.VisitResponse{}, err
	}
	return toVisitResponse(visit), nil
}

func (s *visitService) UpdateVisit(ctx context.Context, id string, req domain.UpdateVisitRequest, userID string) (domain.VisitResponse, error) {
	visit, err := s.getOwnedVisit(ctx, id, userID)
	if err != nil {
		return domain.VisitResponse{}, err
	}

	if req.RestaurantName != "" {
		visit.RestaurantName = req.RestaurantName
	}
	if req.Location != "" {
		visit.Location = req.Location
	}
	if req.VisitDate != "" {
		visitDate, err := time.Parse("2006-01-02", req.VisitDate)
		if err != nil {
			return domain.VisitResponse{}, domain.ErrInvalidVisitDate
		}
		visit.VisitDate = visitDate
	}
	if req.Notes != "" {
		visit.Notes = req.Notes
	}
	if req.OverallRating != nil {
		visit.OverallRating = req.OverallRating
	}

	if err := s.visitRepository.UpdateVisit(ctx, visit); err != nil {
		return domain.VisitResponse{}, err
	}
	return toVisitResponse(visit), nil
}

func (s *visitService) UpdateDish(ctx context.Context, id string, req domain.UpdateDishRequest, userID string) (domain.DishResponse, error) {
	dish, err := s.getOwnedDish(ctx, id, userID)
	if err != nil {
		return domain.DishResponse{}, err
	}

	if req.Name != "" {
		dish.Name = req.Name
	}
	if req.Description != "" {
		dish.Description = req.Description
	}
	if req.Price != "" {
		dish.Price = req.Price
	}
	if req.Category != "" {
		dish.Category = req.Category
	}
	if req.Rating != nil {
		dish.Rating = req.Rating
	}
	if req.Notes != "" {
		dish.Notes = req.Notes
	}
	if req.WantToRecreate != nil {
		dish.WantToRecreate = *req.WantToRecreate
	}

	if err := s.visitRepository.UpdateDish(ctx, dish); err != nil {
		return domain.DishResponse{}, err
	}
	return toDishResponse(dish), nil
}

func (s *visitService) DeleteVisit(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedVisit(ctx, id, userID); err != nil {
		return err
	}
	return s.visitRepository.DeleteVisit(ctx, id)
}

func (s *visitService) DeleteDish(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedDish(ctx, id, userID); err != nil {
		return err
	}
	return s.visitRepository.DeleteDish(ctx, id)
}

func (s *visitService) getOwnedVisit(ctx context.Context, id string, userID string) (*entities.RestaurantVisit, error) {
	visit, err := s.visitRepository.GetVisitByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVisitNotFound
		}
		return nil, err
	}
	if visit.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return visit, nil
}

func (s *visitService) getOwnedDish(ctx context.Context, id string, userID string) (*entities.Dish, error) {
	dish, err := s.visitRepository.GetDishByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDishNotFound
		}
		return nil, err
	}

	owner, err := s.visitRepository.GetDishOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return dish, nil
}

func readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}
	return data, file.Header.Get("Content-Type"), nil
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func toSessionResponse(workflow *Workflow) domain.SessionResponse {
	return domain.SessionResponse{
		State:        string(workflow.State()),
		MenuPhotoURL: workflow.MenuPhotoURL(),
		Candidates:   workflow.Candidates(),
		Selected:     workflow.Selected(),
		Ratings:      workflow.Ratings(),
		Failure:      workflow.Failure(),
	}
}

func toVisitResponses(visits []*entities.RestaurantVisit) []domain.VisitResponse {
	result := make([]domain.VisitResponse, 0, len(visits))
	for _, visit := range visits {
		result = append(result, toVisitResponse(visit))
	}
	return result
}

func toVisitResponse(visit *entities.RestaurantVisit) domain.VisitResponse {
	dishes := make([]domain.DishResponse, 0, len(visit.Dishes))
	for _, dish := range visit.Dishes {
		dishes = append(dishes, toDishResponse(dish))
	}

	return domain.VisitResponse{
		ID:             visit.ID.String(),
		RestaurantName: visit.RestaurantName,
		Location:       visit.Location,
		VisitDate:      visit.VisitDate,
		MenuPhotoURL:   visit.MenuPhotoURL,
		Notes:          visit.Notes,
		OverallRating:  visit.OverallRating,
		Dishes:         dishes,
		CreatedAt:      visit.CreatedAt,
	}
}

func toDishResponse(dish *entities.Dish) domain.DishResponse {
	return domain.DishResponse{
		ID:             dish.ID.String(),
		Name:           dish.Name,
		Description:    dish.Description,
		Price:          dish.Price,
		Category:       dish.Category,
		Ordered:        dish.Ordered,
		Rating:         dish.Rating,
		Notes:          dish.Notes,
		WantToRecreate: dish.WantToRecreate,
	}
}
