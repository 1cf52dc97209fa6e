package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
)

var _ = Describe("TerminalService", func() {
	var (
		svc           service.TerminalService
		mockTerminals *mockTerminalStore
		mockWS        *mockWorkspaceStore
		mockRT        *mockRuntime
		ctx           context.Context
		workspace     *model.Workspace
		ownerID       uuid.UUID
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockTerminals = &mockTerminalStore{}
		mockWS = &mockWorkspaceStore{}
		mockRT = &mockRuntime{}
		ownerID = uuid.New()
		workspace = &model.Workspace{
			ID:     uuid.New(),
			Status: model.WorkspaceRunning,
		}
		mockWS.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.Workspace, error) {
			return workspace, nil
		}
		svc = service.NewTerminalService(mockTerminals, mockWS, mockRT)
	})

	Describe("CreateSession", func() {
		It("should create a detached tmux session with fixed geometry", func() {
			session, err := svc.CreateSession(ctx, workspace.ID, ownerID, model.ModeCollaborative)

			Expect(err).NotTo(HaveOccurred())
			Expect(session.TmuxSession).To(HavePrefix("term-"))
			Expect(session.TmuxSession).To(HaveLen(len("term-") + 8))

			Expect(mockRT.execCalls).To(HaveLen(1))
			Expect(mockRT.execCalls[0]).To(Equal([]string{
				"tmux", "new-session", "-d", "-s", session.TmuxSession, "-x", "200", "-y", "50",
			}))
		})

		It("should default to collaborative mode", func() {
			session, err := svc.CreateSession(ctx, workspace.ID, ownerID, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(session.Mode).To(Equal(model.ModeCollaborative))
		})

		It("should refuse a workspace that is not running", func() {
			workspace.Status = model.WorkspaceStarting

			session, err := svc.CreateSession(ctx, workspace.ID, ownerID, model.ModeCollaborative)

			Expect(err).To(MatchError(service.ErrInvalidState))
			Expect(session).To(BeNil())
			Expect(mockRT.execCalls).To(BeEmpty())
		})
	})

	Describe("SetMode", func() {
		var session *model.TerminalSession

		BeforeEach(func() {
			session = &model.TerminalSession{
				ID:          uuid.New(),
				WorkspaceID: workspace.ID,
				TmuxSession: "term-ab12cd34",
				OwnerID:     ownerID,
				Mode:        model.ModeCollaborative,
			}
			mockTerminals.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.TerminalSession, error) {
				return session, nil
			}
		})

		It("should let the owner switch modes", func() {
			updated, err := svc.SetMode(ctx, session.ID, ownerID, model.ModeReadonly)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Mode).To(Equal(model.ModeReadonly))
		})

		It("should reject a non-owner", func() {
			updated, err := svc.SetMode(ctx, session.ID, uuid.New(), model.ModeReadonly)

			Expect(err).To(MatchError(service.ErrPermissionDenied))
			Expect(updated).To(BeNil())
		})
	})

	Describe("SendInput", func() {
		var session *model.TerminalSession

		BeforeEach(func() {
			session = &model.TerminalSession{
				ID:          uuid.New(),
				WorkspaceID: workspace.ID,
				TmuxSession: "term-ab12cd34",
				OwnerID:     ownerID,
				Mode:        model.ModeCollaborative,
			}
		})

		It("should forward keystrokes via send-keys", func() {
			err := svc.SendInput(ctx, session, workspace, "ls -la\n", ownerID)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRT.execCalls).To(HaveLen(1))
			Expect(mockRT.execCalls[0]).To(Equal([]string{
				"tmux", "send-keys", "-t", "term-ab12cd34", "ls -la\n",
			}))
		})

		It("should silently drop non-owner input on a readonly session", func() {
			session.Mode = model.ModeReadonly

			err := svc.SendInput(ctx, session, workspace, "rm -rf /\n", uuid.New())

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRT.execCalls).To(BeEmpty())
		})

		It("should still accept owner input on a readonly session", func() {
			session.Mode = model.ModeReadonly

			err := svc.SendInput(ctx, session, workspace, "echo ok\n", ownerID)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRT.execCalls).To(HaveLen(1))
		})
	})

	Describe("ReadOutput", func() {
		It("should capture the pane with bounded scrollback", func() {
			session := &model.TerminalSession{
				ID:          uuid.New(),
				WorkspaceID: workspace.ID,
				TmuxSession: "term-ab12cd34",
				OwnerID:     ownerID,
			}
			mockRT.execFn = func(_ context.Context, _ string, _ []string) (string, error) {
				return "$ ls\nREADME.md\n", nil
			}

			output, err := svc.ReadOutput(ctx, session, workspace)

			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(Equal("$ ls\nREADME.md\n"))
			Expect(mockRT.execCalls[0]).To(Equal([]string{
				"tmux", "capture-pane", "-t", "term-ab12cd34", "-p", "-S", "-100",
			}))
		})
	})
})
