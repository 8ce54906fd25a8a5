package agent

import "fmt"

// Stage identifies a pipeline task for logging and run events.
type Stage string

const (
	StageAnalysis    Stage = "analysis"
	StageDrafting    Stage = "drafting"
	StagePublication Stage = "publication"
)

// Task is one unit of pipeline work: a role, an instruction, the upstream
// outputs it builds on, and a description of what it should produce.
type Task struct {
	Stage          Stage
	Role           Role
	Description    string
	ExpectedOutput string
	// Context carries prior task outputs verbatim, in order.
	Context []string
}

// AnalysisTask inspects the raw discovery input. webRefs is scraped page
// text for URLs found in the input; only this task may receive it.
func AnalysisTask(input string, webRefs []string) Task {
	return Task{
		Stage: StageAnalysis,
		Role:  Analyst(),
		Description: fmt.Sprintf(
			"1. Analise o input: %s\n"+
				"2. Identifique: Objetivos, Personas e Riscos Técnicos.\n"+
				"3. Responda estritamente em PORTUGUÊS DO BRASIL.", input),
		ExpectedOutput: "Relatório Técnico de Discovery em PT-BR.",
		Context:        webRefs,
	}
}

// DraftingTask writes the user story from the analysis report.
func DraftingTask(analysis string) Task {
	return Task{
		Stage: StageDrafting,
		Role:  Architect(),
		Description: "Escreva a História de Usuário baseada no relatório técnico.\n" +
			"Estrutura: Título, Contexto, Objetivo, Critérios de Aceite (Gherkin).\n" +
			"IMPORTANTE: O Título deve ser claro, objetivo e ter NO MÁXIMO 100 caracteres.\n" +
			"Idioma Obrigatório: PORTUGUÊS DO BRASIL.",
		ExpectedOutput: "História de Usuário formatada em Markdown (PT-BR).",
		Context:        []string{analysis},
	}
}

// PublicationTask polishes the draft for the given tracker project.
func PublicationTask(draft, projectKey string) Task {
	return Task{
		Stage: StagePublication,
		Role:  Gatekeeper(),
		Description: fmt.Sprintf(
			"Revise a história para o projeto '%s'. "+
				"Garanta que esteja pronta para ser copiada para o Jira. "+
				"Certifique-se de que NÃO HÁ NENHUMA PALAVRA EM INGLÊS no pensamento ou no texto final.",
			projectKey),
		ExpectedOutput: "Conteúdo Final Refinado em Português do Brasil.",
		Context:        []string{draft},
	}
}
