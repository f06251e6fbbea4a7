package entity

// Dimension é uma das notas avaliadas no RAD. DimensionTotal é a nota geral.
type Dimension string

const (
	DimensionTotal    Dimension = "Nota_RAD"
	DimensionEnsino   Dimension = "Ensino"
	DimensionPesquisa Dimension = "Pesquisa"
	DimensionExtensao Dimension = "Extensão"
	DimensionGestao   Dimension = "Gestão"
)

// Dimensions lists every selectable dimension in checklist order.
var Dimensions = []Dimension{
	DimensionTotal,
	DimensionEnsino,
	DimensionPesquisa,
	DimensionExtensao,
	DimensionGestao,
}

// Column returns the source column holding the dimension.
func (d Dimension) Column() Column { return Column(d) }

// Units is the enumerated set of administrative units in published display order.
var Units = []string{
	"Arcoverde",
	"Caruaru",
	"ESEF",
	"FCAP",
	"FCM",
	"FENSG",
	"FOP",
	"Garanhuns",
	"ICB",
	"Mata Norte",
	"Mata Sul",
	"POLI",
	"Petrolina",
	"Reitoria",
	"Salgueiro",
	"Serra Talhada",
}

// Role é um cargo docente com sua cor de exibição.
type Role struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Roles lists the five job titles with their chart colors.
var Roles = []Role{
	{Name: "Professor Auxiliar", Color: "#1f77b4"},
	{Name: "Professor Assistente", Color: "#ff7f0e"},
	{Name: "Professor Adjunto", Color: "#2ca02c"},
	{Name: "Professor Associado", Color: "#d62728"},
	{Name: "Professor Titular", Color: "#9467bd"},
}

// RoleColor returns the display color of a role, or a neutral gray.
func RoleColor(name string) string {
	for _, r := range Roles {
		if r.Name == name {
			return r.Color
		}
	}
	return "#7f7f7f"
}
