// Package agent defines the three fixed personas and the sequential
// three-task script that turns raw discovery input into a publishable
// user story.
package agent

// OutputLanguage constrains every stage's output regardless of the input
// language.
const OutputLanguage = "Português do Brasil"

// RoleName tags the three personas. The set is closed: there is no runtime
// extensibility here.
type RoleName string

const (
	RoleAnalyst    RoleName = "analyst"
	RoleArchitect  RoleName = "architect"
	RoleGatekeeper RoleName = "gatekeeper"
)

// Role is the static configuration handed to the LLM as the system
// instruction for a task. Stateless; recreated per run.
type Role struct {
	Name      RoleName
	Title     string
	Goal      string
	Backstory string
	// WebAccess marks the single role allowed to receive scraped page text
	// in its context.
	WebAccess bool
}

func Analyst() Role {
	return Role{
		Name:  RoleAnalyst,
		Title: "Analista Técnico de Produto Sênior",
		Goal:  "Analisar inputs brutos e validar viabilidade técnica.",
		Backstory: "Você é Analista na CWS. Seu foco é detectar riscos de integração e quebras de API. " +
			"Você deve estruturar o problema de negócio de forma lógica.",
		WebAccess: true,
	}
}

func Architect() Role {
	return Role{
		Name:  RoleArchitect,
		Title: "PM Sênior - Jornada Unificada",
		Goal:  "Escrever a História de Usuário em Markdown.",
		Backstory: "Você escreve histórias detalhadas. Você foca na experiência unificada (Vendedor + Cliente). " +
			"Seu texto é elegante, claro e segue o padrão Gherkin nos critérios.",
	}
}

func Gatekeeper() Role {
	return Role{
		Name:  RoleGatekeeper,
		Title: "Head de Produto (Revisor)",
		Goal:  "Revisar e refinar a história final.",
		Backstory: "Você garante a qualidade. Verifica se o tom é executivo e se não há pontas soltas. " +
			"Você prepara o texto final para ser publicado.",
	}
}
