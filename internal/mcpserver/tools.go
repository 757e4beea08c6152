package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// fieldArgs maps update-fields arguments to form fields.
var fieldArgs = []struct {
	name string
	desc string
	set  func(*wizard.FormUpdate, string)
}{
	{"build_intent", "What the agent should do", func(u *wizard.FormUpdate, v string) { u.BuildIntent = &v }},
	{"workflow_json", "Exported n8n workflow JSON", func(u *wizard.FormUpdate, v string) { u.WorkflowJSON = &v }},
	{"model", "Chat model the agent runs on", func(u *wizard.FormUpdate, v string) { u.Model = &v }},
	{"character_count", "Target prompt length in characters", func(u *wizard.FormUpdate, v string) { u.CharacterCount = &v }},
	{"tools", "Tools available to the agent", func(u *wizard.FormUpdate, v string) { u.Tools = &v }},
	{"expected_input", "What the agent receives", func(u *wizard.FormUpdate, v string) { u.ExpectedInput = &v }},
	{"expected_output", "What the agent must produce", func(u *wizard.FormUpdate, v string) { u.ExpectedOutput = &v }},
}

func (s *Server) registerTools() {
	s.addTool(
		mcp.NewTool("wizard-status",
			mcp.WithDescription("Show the current step, the form and the generated prompt"),
		),
		s.handleStatus,
	)

	s.addTool(
		mcp.NewTool("list-headers",
			mcp.WithDescription("List the prompt sections with their ids and selection"),
		),
		s.handleListHeaders,
	)

	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Set step 1 fields. Only the given fields change."),
	}
	for _, f := range fieldArgs {
		updateOpts = append(updateOpts, mcp.WithString(f.name, mcp.Description(f.desc)))
	}
	s.addTool(mcp.NewTool("update-fields", updateOpts...), s.handleUpdateFields)

	s.addTool(
		mcp.NewTool("answer-question",
			mcp.WithDescription("Answer a clarifying question"),
			mcp.WithNumber("index", mcp.Required(),
				mcp.Description("Question number, starting at 1"),
			),
			mcp.WithString("answer", mcp.Required(),
				mcp.Description("The answer text"),
			),
		),
		s.handleAnswerQuestion,
	)

	s.addTool(
		mcp.NewTool("toggle-header",
			mcp.WithDescription("Select or deselect a prompt section"),
			mcp.WithNumber("id", mcp.Required(),
				mcp.Description("Header id from list-headers"),
			),
			mcp.WithBoolean("selected",
				mcp.Description("Explicit selection; omit to flip"),
			),
		),
		s.handleToggleHeader,
	)

	s.addTool(
		mcp.NewTool("set-header-input",
			mcp.WithDescription("Set the extra input of a section that requires it, such as the output structure"),
			mcp.WithNumber("id", mcp.Required(),
				mcp.Description("Header id from list-headers"),
			),
			mcp.WithString("value", mcp.Required(),
				mcp.Description("Input text"),
			),
		),
		s.handleSetHeaderInput,
	)

	s.addTool(
		mcp.NewTool("advance",
			mcp.WithDescription("Move to the next step, generating questions, the plan or the final prompt as needed"),
		),
		s.handleAdvance,
	)

	s.addTool(
		mcp.NewTool("reset",
			mcp.WithDescription("Discard the session and start over at step 1"),
		),
		s.handleReset,
	)

	if s.history != nil {
		s.addTool(
			mcp.NewTool("wizard-history",
				mcp.WithDescription("List the recorded session events, oldest first"),
				mcp.WithNumber("limit",
					mcp.Description("Only the most recent N events"),
				),
			),
			s.handleHistory,
		)
	}
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

// ToolNames lists the registered tools in registration order.
func (s *Server) ToolNames() []string {
	return slices.Clone(s.tools)
}

// statusView is the JSON shape of wizard-status.
type statusView struct {
	Step        int              `json:"step"`
	Title       string           `json:"title"`
	Progress    string           `json:"progress"`
	Busy        bool             `json:"busy"`
	Form        wizard.FormState `json:"form"`
	FinalPrompt string           `json:"finalPrompt,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.ctrl.Status()
	return jsonResult(statusView{
		Step:        int(st.Step),
		Title:       st.Step.Title(),
		Progress:    st.Step.Progress(),
		Busy:        st.Busy,
		Form:        st.Form,
		FinalPrompt: st.FinalPrompt,
	})
}

func (s *Server) handleListHeaders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, h := range s.ctrl.Form().SelectedHeaders {
		mark := "[ ]"
		if h.Selected {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %2d. %s", mark, h.ID, h.Label)
		if h.Required {
			b.WriteString(" (recommended)")
		}
		if h.RequiresInput {
			fmt.Fprintf(&b, " input=%q", h.InputValue)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleUpdateFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var update wizard.FormUpdate
	var changed []string
	for _, f := range fieldArgs {
		raw, ok := args[f.name]
		if !ok {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("'%s' must be a string", f.name)), nil
		}
		f.set(&update, v)
		changed = append(changed, f.name)
	}
	if update.Empty() {
		return mcp.NewToolResultError("no fields given"), nil
	}

	s.ctrl.UpdateFields(update)
	return mcp.NewToolResultText("Updated " + strings.Join(changed, ", ")), nil
}

func (s *Server) handleAnswerQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	index, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("missing 'index' parameter"), nil
	}
	answer, ok := args["answer"].(string)
	if !ok {
		return mcp.NewToolResultError("missing 'answer' parameter"), nil
	}

	questions := s.ctrl.Form().AIQuestions
	i := int(index) - 1
	if i < 0 || i >= len(questions) {
		return mcp.NewToolResultError(fmt.Sprintf("question %d does not exist (%d questions)", int(index), len(questions))), nil
	}

	s.ctrl.SetAnswer(i, answer)
	return mcp.NewToolResultText(fmt.Sprintf("Answered question %d: %s", i+1, questions[i])), nil
}

func headerID(args map[string]any) (int, *mcp.CallToolResult) {
	id, ok := args["id"].(float64)
	if !ok {
		return 0, mcp.NewToolResultError("missing 'id' parameter")
	}
	return int(id), nil
}

func (s *Server) handleToggleHeader(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, errResult := headerID(args)
	if errResult != nil {
		return errResult, nil
	}

	var selected, ok bool
	if want, explicit := args["selected"].(bool); explicit {
		selected, ok = want, s.ctrl.SetHeaderSelected(id, want)
	} else {
		selected, ok = s.ctrl.ToggleHeader(id)
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown header id %d", id)), nil
	}

	h, _ := s.ctrl.Form().Header(id)
	state := "deselected"
	if selected {
		state = "selected"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s %s", h.Label, state)), nil
}

func (s *Server) handleSetHeaderInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, errResult := headerID(args)
	if errResult != nil {
		return errResult, nil
	}
	value, ok := args["value"].(string)
	if !ok {
		return mcp.NewToolResultError("missing 'value' parameter"), nil
	}

	h, found := s.ctrl.Form().Header(id)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("unknown header id %d", id)), nil
	}
	if !h.RequiresInput {
		return mcp.NewToolResultError(fmt.Sprintf("%s does not take input", h.Label)), nil
	}

	s.ctrl.SetHeaderInput(id, value)
	return mcp.NewToolResultText(fmt.Sprintf("%s input set", h.Label)), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.ctrl.Advance(ctx)

	switch {
	case res.Skipped:
		return mcp.NewToolResultError("a generation is already in progress, try again shortly"), nil
	case res.Notice != nil:
		return mcp.NewToolResultError(fmt.Sprintf("%s (%v)", res.Notice.Message, res.Notice.Err)), nil
	case res.Discarded:
		step := s.ctrl.Step()
		return mcp.NewToolResultError(fmt.Sprintf("the session was reset during generation, now at %s: %s", step.Progress(), step.Title())), nil
	case !res.Advanced():
		return mcp.NewToolResultText(fmt.Sprintf("Already at %s: %s", res.To.Progress(), res.To.Title())), nil
	}

	msg := fmt.Sprintf("Now at %s: %s", res.To.Progress(), res.To.Title())
	form := s.ctrl.Form()
	switch res.Effect {
	case wizard.EffectGenerateQuestions:
		msg += "\n\nClarifying questions:"
		for i, q := range form.AIQuestions {
			msg += fmt.Sprintf("\n%d. %s", i+1, q)
		}
	case wizard.EffectGeneratePlan:
		msg += "\n\nPlan:"
		for i, step := range form.AIPlan {
			msg += fmt.Sprintf("\n%d. %s", i+1, step)
		}
	case wizard.EffectGenerateFinalPrompt:
		msg += "\n\n" + s.ctrl.FinalPrompt()
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.ctrl.Reset()
	return mcp.NewToolResultText("Session reset to " + wizard.StepInitialDetails.Progress()), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.history.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	if limit, ok := request.GetArguments()["limit"].(float64); ok && int(limit) > 0 && int(limit) < len(events) {
		events = events[len(events)-int(limit):]
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No events recorded"), nil
	}

	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "%s %s/%s", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Action)
		if ev.Data != "" {
			fmt.Fprintf(&b, " %s", ev.Data)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
