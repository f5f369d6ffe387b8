package service

import (
	"github.com/gofiber/fiber/v2"

	helper "elearning_backend/internals/helpers"
)

// ActorFromCtx: wajib login.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: id, Role: helper.GetUserRole(c)}, nil
}

// OptionalActor: route publik; anonim = Actor kosong.
func OptionalActor(c *fiber.Ctx) Actor {
	id, ok := helper.OptionalUserID(c)
	if !ok {
		return Actor{}
	}
	return Actor{UserID: id, Role: helper.GetUserRole(c)}
}
