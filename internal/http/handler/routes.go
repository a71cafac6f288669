package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"unidoc/internal/model"
	"unidoc/internal/service"
)

// ActorIDHeader carries the authenticated actor's ID. An auth proxy in
// front of the service is expected to set it; requests without it are
// refused.
const ActorIDHeader = "X-Actor-ID"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic in this skeleton.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, wfSvc service.WorkflowService, notifSvc service.NotificationService) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	app.Post("/documents", CreateDocument(docSvc))
	app.Get("/documents", ListDocuments(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Get("/documents/:id/progress", GetDocumentProgress(docSvc))

	// One route per workflow action keeps the transition explicit in the URL.
	app.Post("/documents/:id/submit", ApplyAction(wfSvc, model.ActionSubmit))
	app.Post("/documents/:id/approve", ApplyAction(wfSvc, model.ActionApprove))
	app.Post("/documents/:id/reject", ApplyAction(wfSvc, model.ActionReject))
	app.Post("/documents/:id/resubmit", ApplyAction(wfSvc, model.ActionResubmit))

	app.Get("/approvals", ListPendingApprovals(docSvc))

	app.Get("/notifications", ListNotifications(notifSvc))
	app.Post("/notifications/:id/read", MarkNotificationRead(notifSvc))
}

// actorID reads the acting user's ID from the request headers.
func actorID(c *fiber.Ctx) string {
	return c.Get(ActorIDHeader)
}

// HealthCheck reports whether the database dependency is reachable.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// createDocumentForm is the multipart form for document creation. The file
// part is optional and read separately via FormFile.
type createDocumentForm struct {
	Title            string `form:"title"`
	Description      string `form:"description"`
	DocumentType     string `form:"document_type"`
	AuthorID         string `form:"author_id"`
	SupervisorID     string `form:"supervisor_id"`
	DepartmentHeadID string `form:"department_head_id"`
	DeanID           string `form:"dean_id"`
}

// CreateDocument creates a draft document (multipart/form-data, optional field: file).
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creator := actorID(c)
		if creator == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}

		var form createDocumentForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		req := service.CreateDocumentRequest{
			CreatorID:        creator,
			AuthorID:         form.AuthorID,
			Title:            form.Title,
			Description:      form.Description,
			DocumentType:     form.DocumentType,
			SupervisorID:     optional(form.SupervisorID),
			DepartmentHeadID: optional(form.DepartmentHeadID),
			DeanID:           optional(form.DeanID),
		}

		if fh, err := c.FormFile("file"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			req.File = f
			req.Filename = fh.Filename
			req.ContentType = ct
			req.FileSize = fh.Size
		}

		doc, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns the calling actor's own documents with limit & offset.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListByAuthor(c.UserContext(), actor, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns a document by ID. Viewing is restricted to the
// document's participants, so the identity header is required.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// GetDocumentProgress returns the author's per-stage progress view.
func GetDocumentProgress(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		progress, err := svc.GetProgress(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(progress)
	}
}

// actionBody is the optional JSON body for workflow actions.
type actionBody struct {
	Comments string `json:"comments"`
}

// ApplyAction runs one workflow action on a document on behalf of the
// calling actor. Comments are optional and recorded on approval decisions.
func ApplyAction(svc service.WorkflowService, action model.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var body actionBody
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
			}
		}

		doc, err := svc.Apply(c.UserContext(), actor, id, action, body.Comments)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ListPendingApprovals returns documents waiting on the calling approver.
func ListPendingApprovals(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		docs, err := svc.ListPendingForApprover(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	}
}

// ListNotifications returns the calling actor's unread notifications.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		notifs, err := svc.Unread(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": notifs})
	}
}

// MarkNotificationRead marks one of the calling actor's notifications read.
func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorID(c)
		if actor == "" {
			return writeError(c, fiber.StatusUnauthorized, "ACTOR_REQUIRED", "missing "+ActorIDHeader+" header")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.MarkRead(c.UserContext(), id, actor); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
