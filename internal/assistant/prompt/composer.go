// internal/assistant/prompt/composer.go

// Package prompt renders the data snapshot and the user's question into the
// structured first-turn prompt. Subsequent turns pass the message through
// untouched; the model already holds the context in its history.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-assistant/internal/models"
)

type Composer struct {
	config  *Config
	printer *message.Printer
}

func NewComposer(config *Config) *Composer {
	return &Composer{
		config: config,
		// Monetary values are rendered with pt-BR separators (1.234,56).
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// Compose builds the model input. A non-empty history means the snapshot
// was never computed and the message goes through verbatim; this keeps
// aggregation to at most once per conversation.
func (c *Composer) Compose(history []models.ConversationTurn, snap *models.Snapshot, userMessage string) string {
	if len(history) > 0 || snap == nil {
		return userMessage
	}

	var parts []string

	parts = append(parts, "CONTEXTO DO SISTEMA:")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("👤 Usuário: %s", snap.UserName))
	parts = append(parts, fmt.Sprintf("📊 Resumo: %d leads, %d atividades, %d pedidos (R$ %s)",
		snap.TotalLeads, snap.TotalActivities, snap.TotalOrders, c.money(snap.TotalOrderValue)))

	if snap.TotalLeads > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("💰 LEADS ATIVOS (%d):", snap.TotalLeads))
		for _, l := range snap.Leads {
			parts = append(parts, fmt.Sprintf("• %s - R$ %s - %s - Estágio: %s",
				l.Nome,
				c.money(l.Valor.Float64()),
				defaultIfEmpty(l.StatusLead, "EM_ANDAMENTO"),
				defaultIfEmpty(l.CodEstagio, "N/A")))
		}
	}

	if snap.TotalActivities > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("📋 ATIVIDADES RECENTES (%d):", snap.TotalActivities))
		for _, act := range snap.Activities {
			parts = append(parts, fmt.Sprintf("• %s - %s - %s",
				c.activityDesc(act.Descricao),
				act.Tipo,
				defaultIfEmpty(act.Status, "AGUARDANDO")))
		}
	}

	if snap.TotalOrders > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("💵 PEDIDOS RECENTES (%d de %d):",
			len(snap.RecentOrders), snap.TotalOrders))
		for _, o := range snap.RecentOrders {
			parts = append(parts, fmt.Sprintf("• Pedido %s - %s - R$ %s - %s",
				o.NuNota.String(), o.NomeParc, c.money(o.VlrNota.Float64()), o.DtNeg))
		}
	}

	if snap.TotalProducts > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("📦 PRODUTOS EM ESTOQUE (%d disponíveis):", snap.TotalProducts))
		listed := snap.Products
		if len(listed) > c.config.MaxProductsListed {
			listed = listed[:c.config.MaxProductsListed]
		}
		for _, p := range listed {
			parts = append(parts, fmt.Sprintf("• %s - Estoque: %.0f",
				truncate(p.DescrProd, c.config.ProductDescWidth), p.Estoque.Float64()))
		}
	}

	if snap.TotalPartners > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("👥 CLIENTES CADASTRADOS: %d clientes disponíveis", snap.TotalPartners))
	}

	parts = append(parts, "")
	parts = append(parts, "PERGUNTA DO USUÁRIO:")
	parts = append(parts, userMessage)

	return strings.Join(parts, "\n")
}

// activityDesc keeps the portion before the delimiter, cut to the display
// width. Descriptions carry machine suffixes after '|' that the model never
// needs.
func (c *Composer) activityDesc(desc string) string {
	if desc == "" {
		return "Sem descrição"
	}
	if idx := strings.Index(desc, c.config.ActivityDelimiter); idx >= 0 {
		desc = desc[:idx]
	}
	return truncate(desc, c.config.ActivityDescWidth)
}

func (c *Composer) money(v float64) string {
	return c.printer.Sprintf("%.2f", v)
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
