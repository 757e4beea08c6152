package template

// QuestionsTemplate asks for clarifying questions about the build intent.
const QuestionsTemplate = `You are an expert n8n automation architect helping a user design the system prompt for an AI Agent node.

## What the user wants to build
{{intent}}

## Existing workflow JSON
{{workflow}}

Ask between 3 and 5 short clarifying questions whose answers would most improve the agent's system prompt.
Focus on gaps: data sources, edge cases, tone, output expectations and tool behavior.
Do not ask about anything the intent or workflow already answers.

Respond with JSON only, in the form:
{"questions": ["question one", "question two"]}
`

// PlanTemplate asks for the step-by-step plan of the final prompt.
const PlanTemplate = `You are an expert prompt engineer for n8n AI Agent nodes.

## Build intent
{{intent}}

## Agent details
- Model: {{model}}
- Target length: {{characters}} characters
- Tools: {{tools}}
- Expected input: {{input}}
- Expected output: {{output}}

## Workflow JSON
{{workflow}}

## Clarifying answers
{{answers}}

## Sections the prompt must contain
{{headers}}

Outline how you will write the system prompt: one short plan step per line item, in the order you will write the sections.

Respond with JSON only, in the form:
{"steps": ["step one", "step two"]}
`

// FinalTemplate asks for the finished system prompt.
const FinalTemplate = `You are an expert prompt engineer for n8n AI Agent nodes.
Write the complete system prompt for the agent described below.

## Build intent
{{intent}}

## Agent details
- Model: {{model}}
- Target length: {{characters}} characters
- Tools: {{tools}}
- Expected input: {{input}}
- Expected output: {{output}}

## Workflow JSON
{{workflow}}

## Clarifying answers
{{answers}}

## Sections (use each as a markdown heading, in this order)
{{headers}}

## Agreed plan
{{plan}}

## Rules
- Output only the system prompt in markdown, with no preamble or closing remarks
- Refer to tools by the names listed above
- Respect the target length when one is given
- Never invent tools, credentials or data sources the user did not mention
`
