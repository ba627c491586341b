package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/config"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	role := flag.String("role", "admin", "role name (admin, ict, accounts, teacher, student, parent)")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		flag.Usage()
		os.Exit(1)
	}

	config.Load()
	db := config.GetDB()
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), 14)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:     *email,
		Password:  string(hashed),
		FirstName: *firstName,
		LastName:  *lastName,
	}

	if err := database.CreateUser(db, user); err != nil {
		log.Fatal("Error creating user: ", err)
	}
	if err := database.AssignRole(db, user.ID, *role); err != nil {
		log.Fatal("Error assigning role: ", err)
	}

	fmt.Printf("User created successfully: %s %s (%s) as %s\n", user.FirstName, user.LastName, user.Email, *role)
}
