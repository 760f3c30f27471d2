package repository

import "github.com/armonia-music/pos-backend/internal/inventory/domain"

// SeedCatalog is the demo catalog installed the first time the store runs with
// an empty backend.
func SeedCatalog() []domain.Product {
	return []domain.Product{
		{
			SKU:         "FEN-FA125",
			Name:        "Guitarra Acústica Fender FA-125",
			Stock:       8,
			Price:       3500.00,
			Category:    "Guitarras",
			Description: "Guitarra acústica de calidad profesional con excelente sonido y acabado.",
		},
		{
			SKU:         "YAM-E373",
			Name:        "Teclado Yamaha PSR-E373",
			Stock:       5,
			Price:       4200.00,
			Category:    "Teclados",
			Description: "Teclado electrónico con 61 teclas y múltiples sonidos incorporados.",
		},
		{
			SKU:         "HOH-SP20",
			Name:        "Armónica Hohner Special 20",
			Stock:       15,
			Price:       850.00,
			Category:    "Vientos",
			Description: "Armónica diatónica de 10 celdas, ideal para blues y folk.",
		},
		{
			SKU:         "DRU-TAM14",
			Name:        "Batería Tama Imperialstar",
			Stock:       3,
			Price:       12500.00,
			Category:    "Percusión",
			Description: "Set completo de batería acústica con platillos incluidos.",
		},
		{
			SKU:         "GIB-LP50",
			Name:        "Guitarra Eléctrica Gibson Les Paul",
			Stock:       2,
			Price:       25000.00,
			Category:    "Guitarras",
			Description: "Guitarra eléctrica de alta gama con pastillas humbucker.",
		},
		{
			SKU:         "BAS-FJ4",
			Name:        "Bajo Fender Jazz Bass",
			Stock:       4,
			Price:       18000.00,
			Category:    "Bajos",
			Description: "Bajo eléctrico de 4 cuerdas con sonido versátil.",
		},
		{
			SKU:         "AMP-MR50",
			Name:        "Amplificador Marshall MG50CFX",
			Stock:       6,
			Price:       8500.00,
			Category:    "Amplificadores",
			Description: "Amplificador combo con efectos digitales integrados.",
		},
	}
}
