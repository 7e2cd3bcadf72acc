package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/darasahq/darasa/core/roster"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB
	rosterRepo roster.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - manage DB migrations (up, down, status, ...)")
	fmt.Println("  addstudent -name NAME -email EMAIL -class CLASS - enroll a student")
	fmt.Println("  addteacher -name NAME -email EMAIL -subject SUBJECT - register a teacher")
	fmt.Println("  seed - load a demo roster")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email address.")
	addStudentClass := addStudentCmd.String("class", "", "The class the student belongs to.")

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ExitOnError)
	addTeacherName := addTeacherCmd.String("name", "", "The teacher's full name.")
	addTeacherEmail := addTeacherCmd.String("email", "", "The teacher's email address.")
	addTeacherSubject := addTeacherCmd.String("subject", "", "The subject the teacher teaches.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentClass == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentEmail, *addStudentClass)
	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherName == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(*addTeacherName, *addTeacherEmail, *addTeacherSubject)
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}
