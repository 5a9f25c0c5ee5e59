package web

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/go-ports/fairshare/internal/buildinfo"
	"github.com/go-ports/fairshare/internal/form"
	"github.com/go-ports/fairshare/internal/money"
	"github.com/go-ports/fairshare/internal/service"
	"github.com/go-ports/fairshare/internal/splitter"
	"github.com/go-ports/fairshare/internal/store"
)

// ClientCookie names the cookie identifying a browser's saved values.
const ClientCookie = "fairshare_client"

const clientCookieTTL = 365 * 24 * time.Hour

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type handlers struct {
	svc *service.Service
}

// page is the data rendered by templates/index.html.
type page struct {
	Values    form.Values
	Round     bool
	Errors    map[string]string
	HasResult bool
	Person1   string
	Person2   string
	Version   string
}

// ---------------------------------------------------------------------------
// HTML form
// ---------------------------------------------------------------------------

func (h *handlers) showForm(c *fiber.Ctx) error {
	ns := h.clientNamespace(c)
	f, err := h.svc.Form(c.UserContext(), ns)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.page(f))
}

func (h *handlers) submitForm(c *fiber.Ctx) error {
	ns := h.clientNamespace(c)
	changes := map[string]string{
		store.KeyIncome1: c.FormValue(store.KeyIncome1),
		store.KeyIncome2: c.FormValue(store.KeyIncome2),
		store.KeyExpense: c.FormValue(store.KeyExpense),
		// An unchecked checkbox is not sent at all.
		store.KeyRound: strconv.FormatBool(c.FormValue(store.KeyRound) != ""),
	}

	f, _, err := h.svc.Submit(c.UserContext(), ns, changes, true)
	switch {
	case errors.Is(err, splitter.ErrValidation):
		return render(c, fiber.StatusUnprocessableEntity, h.page(f))
	case err != nil:
		return err
	}
	return render(c, fiber.StatusOK, h.page(f))
}

func (h *handlers) page(f *form.Form) page {
	values := f.Values()
	round, ok := form.ParseRound(values.Round)
	if !ok {
		round = h.svc.Config.Split.Round
	}
	p := page{
		Values:  values,
		Round:   round,
		Errors:  f.Errors(),
		Version: buildinfo.Version,
	}
	if res, ok := f.Result(); ok {
		p.HasResult = true
		p.Person1 = money.FormatUSD(res.Person1Share)
		p.Person2 = money.FormatUSD(res.Person2Share)
	}
	return p
}

// clientNamespace returns the store namespace of the requesting browser,
// issuing a new client cookie when none (or a malformed one) was sent.
func (h *handlers) clientNamespace(c *fiber.Ctx) string {
	id, err := uuid.Parse(c.Cookies(ClientCookie))
	if err != nil {
		id = uuid.New()
		c.Cookie(&fiber.Cookie{
			Name:     ClientCookie,
			Value:    id.String(),
			Path:     "/",
			Expires:  time.Now().Add(clientCookieTTL),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return store.ClientNamespace(id.String())
}

func render(c *fiber.Ctx, status int, p page) error {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// ---------------------------------------------------------------------------
// JSON API
// ---------------------------------------------------------------------------

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *handlers) apiSplit(c *fiber.Ctx) error {
	var in splitter.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiError{Error: "invalid JSON body"})
	}

	res, err := h.svc.Split(in)
	if err != nil {
		var verr *splitter.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(apiError{
				Error:  verr.Error(),
				Fields: verr.ByField(),
			})
		}
		return err
	}
	return c.JSON(res)
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": buildinfo.Version})
}
