package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/service"
)

// signupFields are the form keys the signup pipeline reads.
var signupFields = []string{"email", "password", "confirmPassword", "firstName", "lastName", "terms", "phone"}

// Signup godoc
// @Summary      Sign up
// @Description  Creates a user with credentials, updates analytics and queues a welcome email.
// @Tags         auth
// @Accept       x-www-form-urlencoded,mpfd
// @Produce      json
// @Success      201  {object}  service.SignupResult
// @Failure      409  {object}  errorPayload
// @Failure      415  {object}  errorPayload
// @Failure      422  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /auth/signup [post]
func Signup(svc service.SignupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(ct, fiber.MIMEApplicationForm) && !strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
			return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "signup expects form data")
		}

		form := make(map[string]string, len(signupFields))
		for _, k := range signupFields {
			if v := c.FormValue(k); v != "" {
				form[k] = v
			}
		}

		res := svc.Signup(c.UserContext(), form)
		if res.OK() {
			return c.Status(fiber.StatusCreated).JSON(res)
		}
		return writeServiceError(c, res.Err())
	}
}
