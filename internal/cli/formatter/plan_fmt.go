package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fred49680/PDC-sub001/internal/coverage"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/rules"
)

const dateLayout = "2006-01-02"

// FormatCoverage renders a coverage report for one demand.
func FormatCoverage(demand *domain.DemandPeriod, rep coverage.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s/%s/%s  %s..%s\n",
		StyleBold.Render("Demand"),
		demand.ProjectID, demand.Site, demand.Skill,
		domain.Day(demand.DateStart).Format(dateLayout),
		domain.Day(demand.DateEnd).Format(dateLayout))
	fmt.Fprintf(&b, "required %d, assigned %d", demand.RequiredHeadcount, rep.Assigned)
	if rep.Shortfall > 0 {
		fmt.Fprintf(&b, ", shortfall %s", StyleRed.Render(strconv.Itoa(rep.Shortfall)))
	}
	if rep.Surplus > 0 {
		fmt.Fprintf(&b, ", surplus %s", StyleYellow.Render(strconv.Itoa(rep.Surplus)))
	}
	fmt.Fprintf(&b, "\n%s\n", CoverageIndicator(rep.Status))
	return b.String()
}

// FormatCandidates renders the candidate evaluation table for a demand.
func FormatCandidates(candidates []rules.Candidate) string {
	if len(candidates) == 0 {
		return "No candidates hold the required skill.\n"
	}
	headers := []string{"RESOURCE", "PRIMARY", "ABSENT", "CONFLICT", "AVAIL DAYS", "TRANSFER", "SELECTABLE"}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		conflict := "no"
		switch {
		case c.HasPartialConflict:
			conflict = StyleYellow.Render("partial")
		case c.HasConflict:
			conflict = StyleRed.Render("yes")
		}
		rows = append(rows, []string{
			c.ResourceID,
			YesNo(c.IsPrimarySkill),
			YesNo(c.IsAbsent),
			conflict,
			strconv.Itoa(len(c.AvailableDays)),
			YesNo(c.NeedsTransfer),
			YesNo(c.Selectable),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDemandList renders a project's demand periods.
func FormatDemandList(demands []*domain.DemandPeriod) string {
	headers := []string{"ID", "SITE", "SKILL", "FROM", "TO", "HEADCOUNT", "FORCED"}
	rows := make([][]string, 0, len(demands))
	for _, d := range demands {
		rows = append(rows, []string{
			shortID(d.ID),
			d.Site,
			d.Skill,
			domain.Day(d.DateStart).Format(dateLayout),
			domain.Day(d.DateEnd).Format(dateLayout),
			strconv.Itoa(d.RequiredHeadcount),
			YesNo(d.Forced),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTransferList renders a resource's transfer windows.
func FormatTransferList(transfers []*domain.TransferRecord) string {
	headers := []string{"ID", "FROM SITE", "TO SITE", "FROM", "TO", "STATUS"}
	rows := make([][]string, 0, len(transfers))
	for _, t := range transfers {
		rows = append(rows, []string{
			shortID(t.ID),
			t.OriginSite,
			t.DestinationSite,
			domain.Day(t.DateStart).Format(dateLayout),
			domain.Day(t.DateEnd).Format(dateLayout),
			TransferBadge(t.Status),
		})
	}
	return RenderTable(headers, rows)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
