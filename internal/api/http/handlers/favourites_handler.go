package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/favourites-api/internal/auth"
	"github.com/spec-kit/favourites-api/internal/domain"
	"github.com/spec-kit/favourites-api/internal/service"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

// FavouritesHandler exposes the caller's favourites list.
type FavouritesHandler struct {
	users *service.UserService
}

// NewFavouritesHandler constructs handler.
func NewFavouritesHandler(users *service.UserService) *FavouritesHandler {
	return &FavouritesHandler{users: users}
}

// List handles GET /api/user/favourites.
func (h *FavouritesHandler) List(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	favourites, err := h.users.GetFavourites(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(favourites)
}

// Add handles PUT /api/user/favourites/:id.
func (h *FavouritesHandler) Add(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}
	favourites, err := h.users.AddFavourite(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(favourites)
}

// Remove handles DELETE /api/user/favourites/:id.
func (h *FavouritesHandler) Remove(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}
	favourites, err := h.users.RemoveFavourite(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(favourites)
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthenticated("authentication required")
	}
	return identity, nil
}

// itemID decodes the raw path segment and copies it; fiber reuses the
// underlying buffer after the handler returns.
func itemID(c *fiber.Ctx) (string, error) {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return "", apperrors.NewValidationError("item id is not a valid path segment")
	}
	return utils.CopyString(id), nil
}
