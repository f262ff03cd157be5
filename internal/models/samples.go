package models

import "time"

// SamplePosts returns the built-in dataset served when no datastore is reachable.
// Every call returns fresh copies.
func SamplePosts() []Post {
	return []Post{
		{
			PostID:        "2",
			Title:         "Tips Produktivitas untuk Developer",
			Content:       "Produktivitas adalah kunci kesuksesan dalam dunia programming. Berikut tips-tips yang bisa membantu...",
			Excerpt:       "Bagaimana mengatur waktu dan meningkatkan produktivitas dalam coding.",
			Author:        DefaultAuthor,
			Tags:          []string{"pengembangan-diri"},
			FeaturedImage: "https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=400&h=200&fit=crop",
			CreatedAt:     time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			PostID:        "1",
			Title:         "Memulai Perjalanan Web Development",
			Content:       "Halo! Ini adalah contoh post pertama di blog pribadi saya. Di sini saya akan berbagi pengalaman dan pengetahuan tentang web development...",
			Excerpt:       "Belajar dasar-dasar web development dan tools yang diperlukan untuk memulai.",
			Author:        DefaultAuthor,
			Tags:          []string{"teknologi", "pengembangan-diri"},
			FeaturedImage: "https://images.unsplash.com/photo-1555066931-4365d14bab8c?w=400&h=200&fit=crop",
			CreatedAt:     time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// FindSamplePost looks a sample post up by id.
func FindSamplePost(id string) (Post, bool) {
	for _, p := range SamplePosts() {
		if p.PostID == id {
			return p, true
		}
	}
	return Post{}, false
}
