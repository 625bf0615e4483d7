package client

// Role represents a user's role as issued by the backend.
type Role string

const (
	RoleMestre Role = "mestre"
	RolePlayer Role = "player"
)

// Session represents the client's belief about who is authenticated,
// derived from the stored credential.
type Session struct {
	Token  string
	Role   Role
	Name   string
	UserID string
}

// LoginResult mirrors the backend response to login and registration.
type LoginResult struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
	Token    string `json:"token,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Sala is the list-view projection of a play room.
type Sala struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	TemSenha   bool   `json:"tem_senha"`
	MestreNome string `json:"mestre_nome"`
}

// Ficha is a character sheet as shipped by the backend.
type Ficha struct {
	ID             int64          `json:"id"`
	NomePersonagem string         `json:"nome_personagem"`
	Classe         string         `json:"classe"`
	Nivel          int            `json:"nivel"`
	Raca           string         `json:"raca"`
	Antecedente    string         `json:"antecedente"`
	Atributos      map[string]int `json:"atributos"`
	Pericias       []string       `json:"pericias"`
	XPAtual        int            `json:"xp_atual"`
	XPProximoNivel int            `json:"xp_proximo_nivel"`
}

// Clone returns a deep copy so local edits never alias the source maps.
func (f Ficha) Clone() Ficha {
	out := f
	if f.Atributos != nil {
		out.Atributos = make(map[string]int, len(f.Atributos))
		for k, v := range f.Atributos {
			out.Atributos[k] = v
		}
	}
	out.Pericias = append([]string(nil), f.Pericias...)
	return out
}

// Monstro is a bestiary catalog entry.
type Monstro struct {
	ID          int64  `json:"id"`
	Nome        string `json:"nome"`
	Descricao   string `json:"descricao,omitempty"`
	VidaMaxima  int    `json:"vida_maxima"`
	Defesa      int    `json:"defesa"`
	DanoDado    string `json:"dano_dado"`
	XPOferecido int    `json:"xp_oferecido"`
}

// Item is an item catalog entry.
type Item struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
	Tipo      string `json:"tipo"`
	PrecoOuro int    `json:"preco_ouro"`
	DanoDado  string `json:"dano_dado,omitempty"`
	Efeito    string `json:"efeito,omitempty"`
}

// Habilidade is a skill catalog entry.
type Habilidade struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
	Efeito    string `json:"efeito"`
	CustoMana int    `json:"custo_mana"`
}

// ItemInventario is an item held in a room's shared inventory.
type ItemInventario struct {
	ID        int64  `json:"id"`
	NomeItem  string `json:"nome_item"`
	Descricao string `json:"descricao,omitempty"`
}

// Anotacoes holds a room's shared notes.
type Anotacoes struct {
	Notas string `json:"notas"`
}
