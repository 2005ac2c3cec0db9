// Command reclam is a terminal client for the réclamations API. It logs
// in, gates every operation through the role navigator, and prints the
// results — the same data flow the mobile screens are built on.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/client"
	"github.com/yasminebennouis/app-reclamations/internal/listing"
	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/nav"
	"github.com/yasminebennouis/app-reclamations/internal/session"
	"github.com/yasminebennouis/app-reclamations/pkg/logger"
)

func main() {
	var (
		server   = flag.String("server", "", "API base URL (default RECLAM_API_BASE_URL or http://localhost:8888)")
		username = flag.String("user", "", "username")
		password = flag.String("password", "", "password")
		cmd      = flag.String("cmd", "list", "list|detail|create|reply|replied|stats|routes")
		id       = flag.Int64("id", 0, "réclamation id (detail/reply)")
		titre    = flag.String("titre", "", "title (create)")
		desc     = flag.String("description", "", "description (create)")
		svc      = flag.String("service", "", "service IT|EQUIPEMENT|INFRASTRUCTURE (create, or list filter)")
		statut   = flag.String("statut", "", "statut (reply, or list filter)")
		query    = flag.String("q", "", "free-text filter (list)")
		comment  = flag.String("comment", "", "technician comment (reply)")
	)
	flag.Parse()

	l := logger.New(os.Getenv("APP_ENV"))
	api := client.New(*server, l)
	sessions := session.NewManager(api)
	navigator := nav.New(sessions)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *username == "" || *password == "" {
		fail("--user and --password are required")
	}
	sess, err := sessions.Login(ctx, *username, *password)
	if err != nil {
		fail("login: " + sessions.Err())
	}
	navigator.Reset()
	fmt.Printf("connecté: %s (%s)\n", sess.Username, sess.Role)

	switch *cmd {
	case "routes":
		for _, r := range nav.RouteSet(&sess.Role) {
			fmt.Println(r)
		}
	case "list":
		runList(ctx, l, navigator, sessions, api, *query, *svc, *statut)
	case "detail":
		runDetail(ctx, navigator, sessions, api, *id)
	case "create":
		runCreate(ctx, navigator, sessions, api, *titre, *desc, *svc)
	case "reply":
		runReply(ctx, navigator, sessions, api, *id, *comment, *statut)
	case "replied":
		runReplied(ctx, navigator, sessions, api)
	case "stats":
		runStats(ctx, navigator, api)
	default:
		fail("unknown command " + *cmd)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}

func must(err error) {
	if err != nil {
		fail(err.Error())
	}
}

func listRouteFor(role models.Role) nav.Route {
	switch role {
	case models.RoleTechnicien:
		return nav.RouteServiceReclamations
	case models.RoleAdmin:
		return nav.RouteAdminReclamations
	default:
		return nav.RouteMyReclamations
	}
}

func runList(ctx context.Context, l zerolog.Logger, n *nav.Navigator, s *session.Manager, api *client.Client, q, svc, st string) {
	sess := s.Current()
	must(n.Navigate(listRouteFor(sess.Role)))

	if sess.Role == models.RoleAdmin {
		f := listing.Filters{Query: q}
		if svc != "" {
			v, err := models.ParseService(svc)
			must(err)
			f.Service = &v
		}
		if st != "" {
			v, err := models.ParseStatut(st)
			must(err)
			f.Statut = &v
		}

		ctl := listing.NewController(
			func(ctx context.Context, f listing.Filters, page, size int) (*models.Page, error) {
				return api.AdminReclamations(ctx, client.AdminListParams{
					Page: page, Size: size, Sort: "dateCreation",
					Q: f.Query, Service: f.Service, Statut: f.Statut,
				})
			},
			api.AllReclamations,
			l,
		)
		defer ctl.Close()

		src, err := ctl.ApplyFilters(ctx, f)
		must(err)
		for ctl.HasMore() {
			if _, err := ctl.Load(ctx, false); err != nil {
				break
			}
		}
		printRows(ctl.Rows())
		if src == listing.SourceFallback {
			fmt.Println("(filtre dégradé côté client)")
		}
		return
	}

	var (
		items []models.Reclamation
		err   error
	)
	if sess.Role == models.RoleTechnicien {
		items, err = api.ServiceReclamations(ctx, sess.Username)
	} else {
		items, err = api.MyReclamations(ctx, sess.Username)
	}
	must(err)
	printRows(items)
}

func runDetail(ctx context.Context, n *nav.Navigator, s *session.Manager, api *client.Client, id int64) {
	if id == 0 {
		fail("--id required")
	}
	must(n.OpenDetail(id, ""))
	_, params := n.Current()
	dp := params.(nav.DetailParams)

	r, err := api.ReclamationDetail(ctx, dp.ID, string(dp.Mode), s.Current().Username)
	must(err)
	printDetail(r)
}

func runCreate(ctx context.Context, n *nav.Navigator, s *session.Manager, api *client.Client, titre, desc, svc string) {
	must(n.Navigate(nav.RouteCreateReclamation))
	if strings.TrimSpace(titre) == "" {
		fail("--titre required")
	}
	v, err := models.ParseService(svc)
	must(err)

	r, err := api.CreateReclamation(ctx, s.Current().Username, client.CreatePayload{
		Service: v, Titre: titre, Description: desc,
	})
	must(err)
	fmt.Printf("créée: #%d %s [%s]\n", r.ID, r.Titre, r.Statut)
}

func runReply(ctx context.Context, n *nav.Navigator, s *session.Manager, api *client.Client, id int64, comment, st string) {
	must(n.Navigate(nav.RouteTechReply))
	if id == 0 {
		fail("--id required")
	}
	v, err := models.ParseStatut(st)
	must(err)

	r, err := api.PostTechnicianReply(ctx, id, s.Current().Username, comment, v)
	must(err)
	fmt.Printf("réponse enregistrée: #%d → %s\n", r.ID, r.Statut)
}

func runReplied(ctx context.Context, n *nav.Navigator, s *session.Manager, api *client.Client) {
	must(n.Navigate(nav.RouteTechnicianReplies))
	items, err := api.TechnicianReplies(ctx, s.Current().Username)
	must(err)
	printRows(items)
}

func runStats(ctx context.Context, n *nav.Navigator, api *client.Client) {
	must(n.Navigate(nav.RouteAdminStats))
	st, err := api.AdminStats(ctx)
	must(err)

	fmt.Println("par service:")
	for _, svc := range models.Services() {
		fmt.Printf("  %-15s %d\n", svc, st.ParService[svc])
	}
	fmt.Println("par statut:")
	for _, s := range models.Statuts() {
		fmt.Printf("  %-12s %d\n", s, st.ParStatut[s])
	}
	if st.DureeMoyenneResolutionMinutes != nil {
		fmt.Printf("résolution moyenne: %d min\n", *st.DureeMoyenneResolutionMinutes)
	} else {
		fmt.Println("résolution moyenne: —")
	}
}

func printRows(items []models.Reclamation) {
	if len(items) == 0 {
		fmt.Println("(aucune réclamation)")
		return
	}
	for _, r := range items {
		fmt.Printf("#%-4d %-12s %-15s %s\n", r.ID, r.Statut, r.Service, r.Titre)
	}
}

func printDetail(r *models.Reclamation) {
	fmt.Printf("#%d %s\n", r.ID, r.Titre)
	fmt.Printf("service: %s  statut: %s\n", r.Service, r.Statut)
	fmt.Printf("créée le: %s\n", r.DateCreation.Format("02/01/2006 15:04"))
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	if r.ReponseTechnicien != "" {
		fmt.Println("réponse technicien:", r.ReponseTechnicien)
	}
	if r.DateResolution != nil {
		fmt.Printf("résolue le: %s\n", r.DateResolution.Format("02/01/2006 15:04"))
	}
	if r.PhotoPath != "" {
		fmt.Println("photo:", r.PhotoPath)
	}
}
