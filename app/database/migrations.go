package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema if it does not exist and seeds the
// built-in roles. All statements are idempotent so the function is safe to
// run on every startup.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(100) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(20),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, role_id)
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE SET NULL,
			admission_number VARCHAR(50) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			date_of_birth DATE,
			gender VARCHAR(10),
			class_name VARCHAR(50),
			section VARCHAR(50),
			admission_date DATE,
			sponsorship_type VARCHAR(50),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			invoice_number VARCHAR(50) UNIQUE NOT NULL,
			issue_date DATE NOT NULL,
			due_date DATE NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL,
			semester VARCHAR(50),
			academic_year VARCHAR(20),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS invoice_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			description VARCHAR(200) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			item_type VARCHAR(50)
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			payment_date DATE NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			payment_method VARCHAR(50),
			transaction_id VARCHAR(100),
			receipt_number VARCHAR(50) UNIQUE NOT NULL,
			notes TEXT,
			recorded_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS final_exams (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			semester VARCHAR(50),
			academic_year VARCHAR(20),
			publish_date TIMESTAMPTZ NOT NULL,
			is_published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_final_exams_unpublished
			ON final_exams (publish_date) WHERE is_published = false`,

		`CREATE TABLE IF NOT EXISTS exam_slips (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			final_exam_id UUID NOT NULL REFERENCES final_exams(id) ON DELETE CASCADE,
			generated_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_valid BOOLEAN NOT NULL DEFAULT true,
			financial_clearance BOOLEAN NOT NULL DEFAULT false,
			academic_clearance BOOLEAN NOT NULL DEFAULT false,
			UNIQUE (student_id, final_exam_id)
		)`,

		`CREATE TABLE IF NOT EXISTS final_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			final_exam_id UUID NOT NULL REFERENCES final_exams(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES students(id),
			subject VARCHAR(100) NOT NULL,
			marks NUMERIC(5,2) NOT NULL,
			grade VARCHAR(5),
			remarks VARCHAR(200),
			teacher_id UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS bow_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			exam_id UUID NOT NULL REFERENCES final_exams(id) ON DELETE CASCADE,
			subject_code VARCHAR(20) NOT NULL,
			subject_name VARCHAR(100) NOT NULL,
			credit_hours INTEGER NOT NULL,
			marks NUMERIC(5,2) NOT NULL,
			grade VARCHAR(5),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration statement failed: %v", err)
			return err
		}
	}

	if err := seedRoles(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func seedRoles(db *sql.DB) error {
	query := `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	for _, name := range []string{"admin", "ict", "accounts", "teacher", "student", "parent"} {
		if _, err := db.Exec(query, name); err != nil {
			log.Printf("Failed to seed role %s: %v", name, err)
			return err
		}
	}
	return nil
}
