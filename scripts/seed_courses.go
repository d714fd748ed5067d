// Package main implements a standalone seed script that populates the LMS
// database with a realistic course catalog, complete with sections, benefits,
// and prerequisites.
//
// Run: go run scripts/seed_courses.go
//   (from the repo root, or: cd scripts && go run seed_courses.go)
package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const coursesPerTopic = 25

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// deterministicUUID produces a stable UUID-like string from a namespace and
// an integer index so that re-runs always produce the same course IDs.
func deterministicUUID(namespace string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", namespace, index)))
	b := h[:16]
	b[6] = (b[6] & 0x0f) | 0x50
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

var topics = []struct {
	Name  string
	Tags  string
	Level string
}{
	{"Go Backend Engineering", "go,backend,api", "intermediate"},
	{"MERN Stack Development", "mern,react,node", "beginner"},
	{"PostgreSQL Deep Dive", "postgres,sql,database", "advanced"},
	{"Kubernetes in Production", "kubernetes,devops,cloud", "advanced"},
	{"TypeScript Fundamentals", "typescript,javascript", "beginner"},
	{"System Design Interviews", "system-design,architecture", "intermediate"},
	{"Redis and Caching Patterns", "redis,caching,performance", "intermediate"},
	{"Event-Driven Architecture", "kafka,events,microservices", "advanced"},
}

var sectionTitles = []string{
	"Introduction and Setup",
	"Core Concepts",
	"Hands-On Project",
	"Common Pitfalls",
	"Testing Strategies",
	"Production Checklist",
}

type seedSection struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoURL      string `json:"video_url"`
	VideoSection  string `json:"video_section"`
	VideoDuration int    `json:"video_duration"`
	VideoPlayer   string `json:"video_player"`
}

type seedBenefit struct {
	Title string `json:"title"`
}

func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func main() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "lms"),
		getEnv("POSTGRES_PASSWORD", "lms_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB_NAME", "lms_db"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	rng := rand.New(rand.NewSource(42))
	start := time.Now()
	total := 0

	for ti, topic := range topics {
		for i := 0; i < coursesPerTopic; i++ {
			idx := ti*coursesPerTopic + i
			name := fmt.Sprintf("%s: Part %d", topic.Name, i+1)
			slug := slugify(name)
			price := float64(rng.Intn(80)+10) + 0.99

			sections := make([]seedSection, 0, len(sectionTitles))
			for si, title := range sectionTitles {
				sections = append(sections, seedSection{
					ID:            deterministicUUID("section", idx*100+si),
					Title:         title,
					Description:   fmt.Sprintf("%s for %s", title, topic.Name),
					VideoURL:      fmt.Sprintf("https://videos.example.com/%s/%d.mp4", slug, si+1),
					VideoSection:  title,
					VideoDuration: rng.Intn(40) + 5,
					VideoPlayer:   "vdocipher",
				})
			}

			benefits := []seedBenefit{
				{Title: fmt.Sprintf("Build production-grade %s skills", topic.Name)},
				{Title: "Lifetime access to all lessons"},
			}
			prerequisites := []seedBenefit{
				{Title: "Basic programming experience"},
			}

			sectionsJSON, _ := json.Marshal(sections)
			benefitsJSON, _ := json.Marshal(benefits)
			prereqJSON, _ := json.Marshal(prerequisites)

			_, err := pool.Exec(ctx, `
				INSERT INTO courses (id, name, slug, description, price, estimated_price, thumbnail, tags, level,
					demo_url, benefits, prerequisites, sections, reviews, ratings, purchased, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, $9, $10, $11, $12, '[]', 0, 0, NOW(), NOW())
				ON CONFLICT (slug) DO NOTHING`,
				deterministicUUID("course", idx),
				name,
				slug,
				fmt.Sprintf("A complete, hands-on course on %s.", topic.Name),
				price,
				price*2,
				topic.Tags,
				topic.Level,
				fmt.Sprintf("https://videos.example.com/%s/demo.mp4", slug),
				benefitsJSON,
				prereqJSON,
				sectionsJSON,
			)
			if err != nil {
				log.Fatalf("insert course %q: %v", name, err)
			}
			total++
		}
		log.Printf("seeded topic %q (%d courses)", topic.Name, coursesPerTopic)
	}

	log.Printf("done: %d courses in %s", total, time.Since(start).Round(time.Millisecond))
}
