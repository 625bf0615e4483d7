package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// App is the terminal client: a loop of views gated by the route guard.
// The active character selection lives here for the lifetime of the
// process, the Go analog of the browser's tab-scoped storage.
type App struct {
	cfg      Config
	logger   *slog.Logger
	sessions *SessionStore
	api      *API
	guard    *Guard

	out   io.Writer
	lines <-chan string

	selectedFichaID int64
	currentSalaID   int64
}

// NewApp wires the client layers into a terminal application.
func NewApp(cfg Config, sessions *SessionStore, api *API, logger *slog.Logger, in io.Reader, out io.Writer) *App {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	return &App{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		api:      api,
		guard:    NewGuard(sessions),
		out:      out,
		lines:    lines,
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// readLine blocks for the next input line. ok is false when input ended.
func (a *App) readLine() (string, bool) {
	line, ok := <-a.lines
	return strings.TrimSpace(line), ok
}

// Run drives the view loop until the user quits or input ends. Every
// navigation passes through the guard, so protected views degrade to the
// login or home view instead of rendering.
func (a *App) Run(ctx context.Context) error {
	if err := a.sessions.Initialize(); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}

	a.printf("--- Taverna do Dragão ---")
	target := ViewHome
	for {
		view := a.guard.Resolve(target)
		var quit bool
		switch view {
		case ViewLogin:
			target, quit = a.loginView(ctx)
		case ViewHome:
			target, quit = a.homeView()
		case ViewSalas:
			target, quit = a.salasView(ctx)
		case ViewSala:
			target, quit = a.salaView(ctx)
		case ViewFichas:
			target, quit = a.fichasView(ctx)
		case ViewMestre:
			target, quit = a.mestreView(ctx)
		default:
			target = ViewLogin
		}
		if quit {
			return nil
		}
	}
}

func (a *App) loginView(ctx context.Context) (View, bool) {
	a.printf("[entrada] comandos: login <usuário> <senha> | registrar <usuário> <senha> | sair")
	for {
		line, ok := a.readLine()
		if !ok {
			return ViewLogin, true
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "login":
			if len(fields) != 3 {
				a.printf("uso: login <usuário> <senha>")
				continue
			}
			result := a.sessions.Login(ctx, fields[1], fields[2])
			if result.Mensagem != "" {
				a.printf("%s", result.Mensagem)
			}
			if result.Sucesso {
				return ViewHome, false
			}
		case "registrar":
			if len(fields) != 3 {
				a.printf("uso: registrar <usuário> <senha>")
				continue
			}
			result, err := a.api.Registrar(ctx, fields[1], fields[2])
			if err != nil {
				a.printf("Erro de conexão ao tentar registrar.")
				continue
			}
			a.printf("%s", result.Mensagem)
		case "sair":
			return ViewLogin, true
		default:
			a.printf("comando desconhecido: %s", fields[0])
		}
	}
}

func (a *App) homeView() (View, bool) {
	session, _ := a.sessions.Current()
	a.printf("[home] bem-vindo, %s (%s)", session.Name, session.Role)
	a.printf("comandos: salas | fichas | mestre | logout | sair")
	for {
		line, ok := a.readLine()
		if !ok {
			return ViewHome, true
		}
		switch line {
		case "salas":
			return ViewSalas, false
		case "fichas":
			return ViewFichas, false
		case "mestre":
			return ViewMestre, false
		case "logout":
			if err := a.sessions.Logout(); err != nil {
				a.printf("Erro ao limpar a credencial guardada.")
			}
			return ViewLogin, false
		case "sair":
			return ViewHome, true
		case "":
		default:
			a.printf("comando desconhecido: %s", line)
		}
	}
}

func (a *App) salasView(ctx context.Context) (View, bool) {
	salas, err := a.api.Salas(ctx)
	if err != nil {
		a.printf("Erro ao buscar salas.")
		if _, ok := a.sessions.Current(); !ok {
			return ViewLogin, false
		}
	}
	for _, sala := range salas {
		lock := "pública"
		if sala.TemSenha {
			lock = "privada"
		}
		a.printf("  #%d %s (mestre: %s, %s)", sala.ID, sala.Nome, sala.MestreNome, lock)
	}
	a.printf("[salas] comandos: entrar <id> [senha] | criar <nome> [senha] | voltar")

	for {
		line, ok := a.readLine()
		if !ok {
			return ViewSalas, true
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "entrar":
			if len(fields) < 2 {
				a.printf("uso: entrar <id> [senha]")
				continue
			}
			salaID, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id de sala inválido: %s", fields[1])
				continue
			}
			senha := ""
			if len(fields) > 2 {
				senha = fields[2]
			}
			if !a.enterSala(ctx, salas, salaID, senha) {
				continue
			}
			return ViewSala, false
		case "criar":
			if len(fields) < 2 {
				a.printf("uso: criar <nome> [senha]")
				continue
			}
			senha := ""
			if len(fields) > 2 {
				senha = fields[len(fields)-1]
				fields = fields[:len(fields)-1]
			}
			nome := strings.Join(fields[1:], " ")
			result, err := a.api.CriarSala(ctx, nome, senha)
			if err != nil {
				a.printf("Erro de conexão ao criar sala.")
				continue
			}
			a.printf("%s", result.Mensagem)
			return ViewSalas, false
		case "voltar":
			return ViewHome, false
		default:
			a.printf("comando desconhecido: %s", fields[0])
		}
	}
}

// enterSala runs the room-entry flow: password check when the room demands
// one, then character selection. The selection is kept only in memory.
func (a *App) enterSala(ctx context.Context, salas []Sala, salaID int64, senha string) bool {
	for _, sala := range salas {
		if sala.ID != salaID {
			continue
		}
		if sala.TemSenha {
			result, err := a.api.VerificarSenha(ctx, salaID, senha)
			if err != nil {
				a.printf("Erro de conexão ao verificar a senha.")
				return false
			}
			if !result.Sucesso {
				if result.Mensagem != "" {
					a.printf("%s", result.Mensagem)
				} else {
					a.printf("Senha incorreta.")
				}
				return false
			}
		}
		if !a.selectFicha(ctx) {
			return false
		}
		a.currentSalaID = salaID
		return true
	}
	a.printf("sala %d não encontrada", salaID)
	return false
}

func (a *App) selectFicha(ctx context.Context) bool {
	fichas, err := a.api.Fichas(ctx)
	if err != nil {
		a.printf("Erro ao buscar fichas.")
		return false
	}
	if len(fichas) == 0 {
		a.printf("Você não tem nenhuma ficha criada. Crie uma na aba de fichas.")
		return false
	}
	for _, ficha := range fichas {
		a.printf("  #%d %s (%s, nível %d)", ficha.ID, ficha.NomePersonagem, ficha.Classe, ficha.Nivel)
	}
	a.printf("escolher <id> para entrar com a ficha, ou voltar")
	for {
		line, ok := a.readLine()
		if !ok {
			return false
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "escolher":
			if len(fields) != 2 {
				a.printf("uso: escolher <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id de ficha inválido: %s", fields[1])
				continue
			}
			for _, ficha := range fichas {
				if ficha.ID == id {
					a.selectedFichaID = id
					return true
				}
			}
			a.printf("ficha %d não encontrada", id)
		case "voltar":
			return false
		default:
			a.printf("comando desconhecido: %s", fields[0])
		}
	}
}

// salaView is the live room session: one channel for its whole lifetime,
// torn down on exit. Inbound events and typed commands are handled on this
// single goroutine, so the editor needs no locking.
func (a *App) salaView(ctx context.Context) (View, bool) {
	session, _ := a.sessions.Current()

	// Fail closed on a stale selection: the referenced sheet may have
	// been deleted since it was chosen.
	snapshot, err := a.api.FichaByID(ctx, a.selectedFichaID)
	if errors.Is(err, ErrNotFound) {
		a.printf("A ficha selecionada não existe mais. Escolha outra.")
		a.selectedFichaID = 0
		return ViewSalas, false
	}
	if err != nil {
		a.printf("Erro ao carregar a ficha.")
		if _, ok := a.sessions.Current(); !ok {
			return ViewLogin, false
		}
		return ViewSalas, false
	}

	editor := NewFichaEditor(snapshot)
	ch := NewChannel(a.cfg, a.logger)
	if err := ch.Join(ctx, session, a.currentSalaID, a.selectedFichaID); err != nil {
		for _, entry := range ch.Entries() {
			a.printf("%s", entry)
		}
		return ViewSalas, false
	}

	a.printf("[sala %d] mensagens são enviadas como chat; comandos: /rolar <XdY> | /xp <alvo|all> <qtd> | /ficha | /atributo <nome> <delta> | /pericia <nome> | /salvar | /notas | /inventario | /sair", a.currentSalaID)

	for {
		select {
		case ev, open := <-ch.Events():
			if !open {
				a.printf("* conexão com a sala encerrada")
				return ViewSalas, false
			}
			a.renderEvent(ev, editor)
		case line, ok := <-a.lines:
			if !ok {
				ch.Leave()
				a.drain(ch)
				return ViewSala, true
			}
			if a.salaCommand(ctx, strings.TrimSpace(line), ch, editor) {
				ch.Leave()
				a.drain(ch)
				return ViewSalas, false
			}
		}
	}
}

func (a *App) drain(ch *Channel) {
	for range ch.Events() {
	}
}

func (a *App) renderEvent(ev Event, editor *FichaEditor) {
	switch ev := ev.(type) {
	case HistoryEvent:
		for _, entry := range ev.Entries {
			a.printf("%s", entry)
		}
	case MessageEvent:
		a.printf("%s", ev.Entry)
	case MestreStatusEvent:
		if ev.Mestre {
			a.printf("* você é o mestre desta sala")
		}
	case XPUpdateEvent:
		editor.AplicarXP(ev)
		ficha := editor.Ficha()
		a.printf("* XP: %d / %d", ficha.XPAtual, ficha.XPProximoNivel)
	}
}

// salaCommand handles one line of room input. Returns true when the user
// leaves the room.
func (a *App) salaCommand(ctx context.Context, line string, ch *Channel, editor *FichaEditor) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		if err := ch.SendMessage(line); err != nil {
			a.printf("[erro] mensagem não enviada")
		}
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/sair":
		return true
	case "/rolar":
		if err := ch.RollDice(strings.Join(fields[1:], " ")); err != nil {
			a.printf("[erro] rolagem não enviada")
		}
	case "/xp":
		if !ch.Mestre() {
			a.printf("[erro] apenas o mestre da sala distribui XP")
			return false
		}
		if len(fields) != 3 {
			a.printf("uso: /xp <ficha|all> <quantidade>")
			return false
		}
		quantidade, err := strconv.Atoi(fields[2])
		if err != nil {
			quantidade = 0
		}
		if err := ch.DarXP(fields[1], quantidade); err != nil {
			a.printf("Erro: Conexão perdida ou XP inválido.")
			return false
		}
		a.printf("%s XP distribuído!", fields[2])
	case "/ficha":
		a.printFicha(editor.Ficha(), editor.Dirty())
	case "/atributo":
		if len(fields) != 3 {
			a.printf("uso: /atributo <nome> <delta>")
			return false
		}
		delta, err := strconv.Atoi(fields[2])
		if err != nil {
			a.printf("delta inválido: %s", fields[2])
			return false
		}
		editor.AjustarAtributo(fields[1], delta)
	case "/pericia":
		editor.AdicionarPericia(strings.Join(fields[1:], " "))
	case "/salvar":
		result, err := a.api.AtualizarFicha(ctx, editor.Ficha())
		if err != nil {
			var backendErr *BackendError
			if errors.As(err, &backendErr) {
				a.printf("%s", backendErr.Mensagem)
			} else {
				a.printf("Erro de conexão ao salvar a ficha.")
			}
			return false
		}
		editor.MarkSaved()
		if result.Mensagem != "" {
			a.printf("%s", result.Mensagem)
		} else {
			a.printf("Ficha salva!")
		}
	case "/notas":
		a.notasCommand(ctx, fields)
	case "/inventario":
		a.inventarioCommand(ctx, fields)
	default:
		a.printf("comando desconhecido: %s", fields[0])
	}
	return false
}

func (a *App) notasCommand(ctx context.Context, fields []string) {
	if len(fields) == 1 {
		notas, err := a.api.Anotacoes(ctx, a.currentSalaID)
		if err != nil {
			a.printf("Erro ao carregar anotações.")
			return
		}
		a.printf("--- anotações ---\n%s", notas.Notas)
		return
	}
	texto := strings.Join(fields[1:], " ")
	if err := a.api.SalvarAnotacoes(ctx, a.currentSalaID, texto); err != nil {
		a.printf("Erro ao salvar anotações.")
		return
	}
	a.printf("Anotações salvas!")
}

func (a *App) inventarioCommand(ctx context.Context, fields []string) {
	if len(fields) == 1 {
		itens, err := a.api.Inventario(ctx, a.currentSalaID, a.selectedFichaID)
		if err != nil {
			a.printf("Erro ao carregar o inventário.")
			return
		}
		for _, item := range itens {
			a.printf("  #%d %s — %s", item.ID, item.NomeItem, item.Descricao)
		}
		return
	}
	switch fields[1] {
	case "add":
		if len(fields) < 3 {
			a.printf("uso: /inventario add <nome> [descrição]")
			return
		}
		nome := fields[2]
		descricao := strings.Join(fields[3:], " ")
		if err := a.api.AdicionarItemInventario(ctx, a.currentSalaID, a.selectedFichaID, nome, descricao); err != nil {
			a.printf("Erro de conexão ao adicionar item.")
			return
		}
		a.printf("Item adicionado!")
	case "del":
		if len(fields) != 3 {
			a.printf("uso: /inventario del <id>")
			return
		}
		id, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			a.printf("id inválido: %s", fields[2])
			return
		}
		if err := a.api.DescartarItemInventario(ctx, id); err != nil {
			a.printf("Erro ao descartar item.")
			return
		}
		a.printf("Item descartado.")
	default:
		a.printf("uso: /inventario [add|del]")
	}
}

func (a *App) printFicha(ficha Ficha, dirty bool) {
	estado := ""
	if dirty {
		estado = " (alterações não salvas)"
	}
	a.printf("%s — %s %s, nível %d%s", ficha.NomePersonagem, ficha.Raca, ficha.Classe, ficha.Nivel, estado)
	a.printf("antecedente: %s", ficha.Antecedente)
	a.printf("XP: %d / %d", ficha.XPAtual, ficha.XPProximoNivel)
	for nome, valor := range ficha.Atributos {
		a.printf("  %s: %d", nome, valor)
	}
	if len(ficha.Pericias) > 0 {
		a.printf("perícias: %s", strings.Join(ficha.Pericias, ", "))
	}
}

func (a *App) fichasView(ctx context.Context) (View, bool) {
	fichas, err := a.api.Fichas(ctx)
	if err != nil {
		a.printf("Erro ao buscar fichas.")
		if _, ok := a.sessions.Current(); !ok {
			return ViewLogin, false
		}
	}
	for _, ficha := range fichas {
		a.printf("  #%d %s (%s, nível %d)", ficha.ID, ficha.NomePersonagem, ficha.Classe, ficha.Nivel)
	}
	a.printf("[fichas] comandos: ver <id> | criar <nome> <classe> <raça> [antecedente] | apagar <id> | voltar")

	for {
		line, ok := a.readLine()
		if !ok {
			return ViewFichas, true
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "ver":
			if len(fields) != 2 {
				a.printf("uso: ver <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			ficha, err := a.api.FichaByID(ctx, id)
			if err != nil {
				a.printf("Erro ao carregar a ficha.")
				continue
			}
			a.printFicha(ficha, false)
		case "criar":
			if len(fields) < 4 {
				a.printf("uso: criar <nome> <classe> <raça> [antecedente]")
				continue
			}
			ficha := Ficha{
				NomePersonagem: fields[1],
				Classe:         fields[2],
				Raca:           fields[3],
				Antecedente:    strings.Join(fields[4:], " "),
			}
			result, err := a.api.CriarFicha(ctx, ficha)
			if err != nil {
				a.printf("Erro de conexão ao criar ficha.")
				continue
			}
			a.printf("%s", result.Mensagem)
			return ViewFichas, false
		case "apagar":
			if len(fields) != 2 {
				a.printf("uso: apagar <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			if err := a.api.ApagarFicha(ctx, id); err != nil {
				a.printf("Erro de conexão ao apagar ficha.")
				continue
			}
			if a.selectedFichaID == id {
				a.selectedFichaID = 0
			}
			return ViewFichas, false
		case "voltar":
			return ViewHome, false
		default:
			a.printf("comando desconhecido: %s", fields[0])
		}
	}
}

func (a *App) mestreView(ctx context.Context) (View, bool) {
	a.printf("[mestre] comandos: monstros | itens | habilidades | criar-monstro <nome> <vida> <defesa> <dano> <xp> | criar-item <nome> <tipo> <preço> [efeito] | criar-habilidade <nome> <mana> <efeito> | editar-monstro <id> <nome> <vida> <defesa> <dano> <xp> | editar-item <id> <nome> <tipo> <preço> [efeito] | editar-habilidade <id> <nome> <mana> <efeito> | apagar-monstro <id> | apagar-item <id> | apagar-habilidade <id> | voltar")
	for {
		line, ok := a.readLine()
		if !ok {
			return ViewMestre, true
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "monstros":
			monstros, err := a.api.Monstros(ctx)
			if err != nil {
				a.printf("Erro ao buscar monstros.")
				continue
			}
			for _, monstro := range monstros {
				a.printf("  #%d %s (vida %d, defesa %d, dano %s, xp %d)", monstro.ID, monstro.Nome, monstro.VidaMaxima, monstro.Defesa, monstro.DanoDado, monstro.XPOferecido)
			}
		case "itens":
			itens, err := a.api.Itens(ctx)
			if err != nil {
				a.printf("Erro ao buscar itens.")
				continue
			}
			for _, item := range itens {
				a.printf("  #%d %s (%s, %d ouro) %s", item.ID, item.Nome, item.Tipo, item.PrecoOuro, item.Efeito)
			}
		case "habilidades":
			habilidades, err := a.api.Habilidades(ctx)
			if err != nil {
				a.printf("Erro ao buscar habilidades.")
				continue
			}
			for _, habilidade := range habilidades {
				a.printf("  #%d %s (mana %d) %s", habilidade.ID, habilidade.Nome, habilidade.CustoMana, habilidade.Efeito)
			}
		case "criar-monstro":
			if len(fields) != 6 {
				a.printf("uso: criar-monstro <nome> <vida> <defesa> <dano> <xp>")
				continue
			}
			vida, _ := strconv.Atoi(fields[2])
			defesa, _ := strconv.Atoi(fields[3])
			xp, _ := strconv.Atoi(fields[5])
			monstro := Monstro{Nome: fields[1], VidaMaxima: vida, Defesa: defesa, DanoDado: fields[4], XPOferecido: xp}
			if err := a.api.CriarMonstro(ctx, monstro); err != nil {
				a.printf("Erro ao criar monstro.")
				continue
			}
			a.printf("Monstro criado!")
		case "criar-item":
			if len(fields) < 4 {
				a.printf("uso: criar-item <nome> <tipo> <preço> [efeito]")
				continue
			}
			preco, _ := strconv.Atoi(fields[3])
			item := Item{Nome: fields[1], Tipo: fields[2], PrecoOuro: preco, Efeito: strings.Join(fields[4:], " ")}
			if err := a.api.CriarItem(ctx, item); err != nil {
				a.printf("Erro ao criar item.")
				continue
			}
			a.printf("Item criado!")
		case "criar-habilidade":
			if len(fields) < 4 {
				a.printf("uso: criar-habilidade <nome> <mana> <efeito>")
				continue
			}
			mana, _ := strconv.Atoi(fields[2])
			habilidade := Habilidade{Nome: fields[1], CustoMana: mana, Efeito: strings.Join(fields[3:], " ")}
			if err := a.api.CriarHabilidade(ctx, habilidade); err != nil {
				a.printf("Erro ao criar habilidade.")
				continue
			}
			a.printf("Habilidade criada!")
		case "editar-monstro":
			if len(fields) != 7 {
				a.printf("uso: editar-monstro <id> <nome> <vida> <defesa> <dano> <xp>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			vida, _ := strconv.Atoi(fields[3])
			defesa, _ := strconv.Atoi(fields[4])
			xp, _ := strconv.Atoi(fields[6])
			monstro := Monstro{ID: id, Nome: fields[2], VidaMaxima: vida, Defesa: defesa, DanoDado: fields[5], XPOferecido: xp}
			if err := a.api.AtualizarMonstro(ctx, monstro); err != nil {
				a.printf("Erro ao atualizar monstro.")
				continue
			}
			a.printf("Monstro atualizado!")
		case "editar-item":
			if len(fields) < 5 {
				a.printf("uso: editar-item <id> <nome> <tipo> <preço> [efeito]")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			preco, _ := strconv.Atoi(fields[4])
			item := Item{ID: id, Nome: fields[2], Tipo: fields[3], PrecoOuro: preco, Efeito: strings.Join(fields[5:], " ")}
			if err := a.api.AtualizarItem(ctx, item); err != nil {
				a.printf("Erro ao atualizar item.")
				continue
			}
			a.printf("Item atualizado!")
		case "editar-habilidade":
			if len(fields) < 5 {
				a.printf("uso: editar-habilidade <id> <nome> <mana> <efeito>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			mana, _ := strconv.Atoi(fields[3])
			habilidade := Habilidade{ID: id, Nome: fields[2], CustoMana: mana, Efeito: strings.Join(fields[4:], " ")}
			if err := a.api.AtualizarHabilidade(ctx, habilidade); err != nil {
				a.printf("Erro ao atualizar habilidade.")
				continue
			}
			a.printf("Habilidade atualizada!")
		case "apagar-monstro", "apagar-item", "apagar-habilidade":
			if len(fields) != 2 {
				a.printf("uso: %s <id>", fields[0])
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				a.printf("id inválido: %s", fields[1])
				continue
			}
			switch fields[0] {
			case "apagar-monstro":
				err = a.api.ApagarMonstro(ctx, id)
			case "apagar-item":
				err = a.api.ApagarItem(ctx, id)
			default:
				err = a.api.ApagarHabilidade(ctx, id)
			}
			if err != nil {
				a.printf("Erro ao apagar.")
				continue
			}
			a.printf("Apagado.")
		case "voltar":
			return ViewHome, false
		default:
			a.printf("comando desconhecido: %s", fields[0])
		}
	}
}
