// Package messages renders the French texts shown to bot users.
package messages

import (
	"fmt"
	"strings"

	"github.com/example/sacsbot/internal/calc"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━"

// Texts renders messages for a fixed set of limits.
type Texts struct {
	limits calc.Limits
}

func New(limits calc.Limits) Texts { return Texts{limits: limits} }

func (t Texts) Welcome() string {
	return fmt.Sprintf("🤖 Bienvenue dans le Calculateur de Sacs de Palettes !\n\n"+
		"Je vais vous aider à calculer le nombre total de sacs.\n\n"+
		"Logique de calcul :\n"+
		"• Lignes impaires (1,3,5...) : %d sacs\n"+
		"• Lignes paires (2,4,6...) : %d sacs\n\n"+
		"Valeurs autorisées : %s\n\n"+
		"Commençons ! Entrez le nombre de lignes :",
		calc.OddRowBags, calc.EvenRowBags, t.limits.Lines)
}

func (t Texts) Help() string {
	ex := calc.Breakdown(11, 8)
	var b strings.Builder
	b.WriteString("📖 AIDE DU BOT\n━━━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("🤖 Commandes disponibles :\n")
	b.WriteString("/start - Commencer un nouveau calcul\n")
	b.WriteString("/calc - Calculer le nombre de sacs\n")
	b.WriteString("/help - Afficher cette aide\n")
	b.WriteString("/cancel - Annuler le calcul en cours\n\n")
	b.WriteString("📐 Logique de calcul :\n")
	fmt.Fprintf(&b, "• Lignes impaires (1,3,5,...) : %d sacs chacune\n", calc.OddRowBags)
	fmt.Fprintf(&b, "• Lignes paires (2,4,6,...) : %d sacs chacune\n", calc.EvenRowBags)
	b.WriteString("• Ensuite, les sacs supplémentaires sont ajoutés\n\n")
	b.WriteString("Exemple :\n")
	fmt.Fprintf(&b, "%d lignes + %d sacs =\n", ex.Lines, ex.Bags)
	fmt.Fprintf(&b, "(%d×%d + %d×%d) + %d = %d + %d + %d = %d sacs\n\n",
		ex.OddRows, calc.OddRowBags, ex.EvenRows, calc.EvenRowBags, ex.Bags,
		ex.OddSubtotal, ex.EvenSubtotal, ex.Bags, ex.Total)
	fmt.Fprintf(&b, "✅ Lignes autorisées : %s\n", t.limits.Lines)
	fmt.Fprintf(&b, "✅ Sacs supplémentaires autorisés : %s\n", t.limits.Bags)
	b.WriteString("❌ Toutes les autres valeurs seront rejetées")
	return b.String()
}

func (t Texts) PromptLines() string {
	return fmt.Sprintf("Entrez le nombre de lignes (%s) :", t.limits.Lines)
}

func (t Texts) PromptBags(lines int) string {
	return fmt.Sprintf("✅ Lignes : %d\n\nMaintenant, entrez le nombre de sacs supplémentaires (%s) :", lines, t.limits.Bags)
}

// OutOfRange is the re-prompt after a rejected value.
func (t Texts) OutOfRange(r calc.Range) string {
	return fmt.Sprintf("❌ Erreur ! Veuillez entrer un nombre entre %d et %d.\nEssayez encore :", r.Min, r.Max)
}

func (t Texts) Result(res calc.Result) string {
	var b strings.Builder
	b.WriteString("📊 RÉSULTAT DU CALCUL\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Lignes : %d\n", res.Lines)
	fmt.Fprintf(&b, "Sacs supplémentaires : %d\n\n", res.Bags)
	b.WriteString("📐 Détails :\n")
	fmt.Fprintf(&b, "• Lignes impaires : %d × %d = %d sacs\n", res.OddRows, calc.OddRowBags, res.OddSubtotal)
	fmt.Fprintf(&b, "• Lignes paires : %d × %d = %d sacs\n", res.EvenRows, calc.EvenRowBags, res.EvenSubtotal)
	fmt.Fprintf(&b, "• Sacs supplémentaires : %d\n\n", res.Bags)
	fmt.Fprintf(&b, "✅ TOTAL : %d sacs\n", res.Total)
	b.WriteString(rule + "\n\n")
	b.WriteString("Tapez /calc pour un nouveau calcul ou /help pour l'aide")
	return b.String()
}

func (t Texts) Cancelled() string {
	return "❌ Calcul annulé.\nTapez /calc pour un nouveau calcul."
}
